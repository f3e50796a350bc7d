package cmd

import (
	"bytes"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"
)

// MockLinkLister implements LinkLister
type MockLinkLister struct {
	mock.Mock
}

func (m *MockLinkLister) LinkList() ([]netlink.Link, error) {
	args := m.Called()
	links, _ := args.Get(0).([]netlink.Link)
	return links, args.Error(1)
}

func TestRunInterfaces_Success(t *testing.T) {
	lister := new(MockLinkLister)
	lister.On("LinkList").Return([]netlink.Link{
		&netlink.Device{LinkAttrs: netlink.LinkAttrs{Index: 1, Name: "lo", MTU: 65536, Flags: net.FlagUp | net.FlagLoopback}},
		&netlink.Device{LinkAttrs: netlink.LinkAttrs{
			Index: 2, Name: "eth0", MTU: 1500,
			HardwareAddr: net.HardwareAddr{0x02, 0x42, 0xac, 0x11, 0x00, 0x02},
		}},
	}, nil)

	var buf bytes.Buffer
	err := runInterfaces(lister, &buf)

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "INDEX")
	assert.Regexp(t, `1\s+lo\s+up\s+65536\s+-`, out)
	assert.Regexp(t, `2\s+eth0\s+down\s+1500\s+02:42:ac:11:00:02`, out)
	lister.AssertExpectations(t)
}

func TestRunInterfaces_Error(t *testing.T) {
	lister := new(MockLinkLister)
	lister.On("LinkList").Return(nil, errors.New("operation not permitted"))

	var buf bytes.Buffer
	err := runInterfaces(lister, &buf)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not permitted")
	lister.AssertExpectations(t)
}
