// Package testutil holds helpers shared by tests.
package testutil

import (
	"os"
	"testing"
)

// RequireNetlink skips the test unless WPAND_NETLINK_TEST is set. Such tests
// create real links and need CAP_NET_ADMIN plus an IEEE 802.15.4 device
// (mac802154_hwsim is enough); the device name comes from
// WPAND_TEST_PARENT and defaults to wpan0.
func RequireNetlink(t *testing.T) string {
	t.Helper()
	if os.Getenv("WPAND_NETLINK_TEST") == "" {
		t.Skip("Skipping test: requires WPAND_NETLINK_TEST environment")
	}
	if parent := os.Getenv("WPAND_TEST_PARENT"); parent != "" {
		return parent
	}
	return "wpan0"
}
