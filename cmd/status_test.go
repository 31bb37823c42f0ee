package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/wpand/internal/network"
)

func sampleStatus() *network.LinkStatus {
	return &network.LinkStatus{
		Name:        "lowpan0",
		Index:       7,
		ParentIndex: 3,
		Type:        "lowpan",
		Flags:       "up|multicast",
		OperState:   "up",
		MTU:         1280,
		Addresses:   []string{"fe80::1/64"},
	}
}

func TestWriteStatus_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatus(&buf, sampleStatus(), "wpan0", false))

	out := buf.String()
	assert.Contains(t, out, "lowpan0 (index 7)")
	assert.Contains(t, out, "wpan0 (index 3)")
	assert.Contains(t, out, "fe80::1/64")

	st := sampleStatus()
	st.Addresses = nil
	buf.Reset()
	require.NoError(t, writeStatus(&buf, st, "", false))
	assert.Contains(t, buf.String(), "Address:  none")
	assert.Contains(t, buf.String(), "Parent:   index 3")
}

func TestWriteStatus_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatus(&buf, sampleStatus(), "wpan0", true))

	var got network.LinkStatus
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleStatus(), got)
}
