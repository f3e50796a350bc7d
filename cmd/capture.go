package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/netsniff/internal/config"
	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/filter"
	"firestige.xyz/netsniff/internal/log"
	"firestige.xyz/netsniff/internal/metrics"
	"firestige.xyz/netsniff/internal/pipeline"
	"firestige.xyz/netsniff/internal/sink/console"
	"firestige.xyz/netsniff/internal/source"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture frames and dump HTTP/DNS traffic",
	Long: `Capture frames from an interface (AF_PACKET, Linux only) or replay a pcap file,
and print every frame that matches the report mode.

When no mode is given by flag or config, an interactive menu asks for one.

Examples:
  netsniff capture -i eth0 -m tcp
  netsniff capture -i eth0 --kernel-filter
  netsniff capture -r trace.pcap -m all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := applyCaptureFlags(cmd, cfg); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runCapture(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var (
	captureInterface    string
	captureMode         string
	captureFile         string
	captureKernelFilter bool
)

func init() {
	captureCmd.Flags().StringVarP(&captureInterface, "interface", "i", "",
		"network interface to capture on")
	captureCmd.Flags().StringVarP(&captureMode, "mode", "m", "",
		"report mode: tcp, udp or all (prompted when unset)")
	captureCmd.Flags().StringVarP(&captureFile, "file", "r", "",
		"replay frames from a pcap/pcapng file instead of an interface")
	captureCmd.Flags().BoolVar(&captureKernelFilter, "kernel-filter", false,
		"drop frames outside the report mode in the kernel")
}

// applyCaptureFlags overrides config values with explicitly set flags.
func applyCaptureFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("interface") {
		cfg.Capture.Interface = captureInterface
	}
	if flags.Changed("mode") {
		cfg.Filter.Mode = captureMode
	}
	if flags.Changed("file") {
		cfg.Capture.PcapFile = captureFile
	}
	if flags.Changed("kernel-filter") {
		cfg.Capture.KernelFilter = captureKernelFilter
	}
	return cfg.ValidateAndApplyDefaults()
}

func runCapture(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	if err := log.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	var mode filter.Mode
	var err error
	if cfg.Filter.Mode != "" {
		mode, err = filter.ParseMode(cfg.Filter.Mode)
	} else {
		mode, err = promptMode(in, out)
	}
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer srv.Stop(context.Background())
	}

	src, err := source.Open(cfg.Capture, mode)
	if err != nil {
		return err
	}
	defer src.Close()

	formatter := console.NewFormatter(console.Options{
		Printable:       console.Printable(cfg.Output.Printable),
		DNSPayloadLimit: cfg.Output.DNSPayloadLimit,
		LineWidth:       cfg.Output.LineWidth,
	})

	p := pipeline.NewBuilder().
		WithSource(src).
		WithSink(console.NewSink(out, formatter)).
		WithMode(mode).
		Build()
	return p.Run(ctx)
}

const modeMenu = `Select protocol to report:
1. TCP (HTTP)
2. UDP (DNS)
3. ALL
Enter choice: `

// promptMode asks for a report mode until a valid one is entered.
func promptMode(in io.Reader, out io.Writer) (filter.Mode, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, modeMenu)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, fmt.Errorf("read mode: %w", err)
			}
			return 0, fmt.Errorf("no mode selected: %w", core.ErrInvalidMode)
		}
		mode, err := filter.ParseMode(scanner.Text())
		if err == nil {
			return mode, nil
		}
		fmt.Fprintln(out, "Invalid choice, enter 1, 2 or 3.")
	}
}
