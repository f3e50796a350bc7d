package cmd

import (
	"fmt"
	"io"
	"net"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vishvananda/netlink"
)

// LinkLister lists network links.
type LinkLister interface {
	LinkList() ([]netlink.Link, error)
}

type netlinkLister struct{}

func (netlinkLister) LinkList() ([]netlink.Link, error) { return netlink.LinkList() }

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List network interfaces available for capture",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterfaces(netlinkLister{}, cmd.OutOrStdout())
	},
}

func runInterfaces(lister LinkLister, out io.Writer) error {
	links, err := lister.LinkList()
	if err != nil {
		return fmt.Errorf("failed to list interfaces: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tSTATE\tMTU\tMAC")
	for _, link := range links {
		attrs := link.Attrs()
		state := "down"
		if attrs.Flags&net.FlagUp != 0 {
			state = "up"
		}
		mac := "-"
		if len(attrs.HardwareAddr) > 0 {
			mac = attrs.HardwareAddr.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", attrs.Index, attrs.Name, state, attrs.MTU, mac)
	}
	return w.Flush()
}
