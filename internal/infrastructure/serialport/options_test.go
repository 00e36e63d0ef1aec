package serialport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestPortOptions_Defaults(t *testing.T) {
	mode, err := PortOptions{}.SerialMode()
	require.NoError(t, err)
	require.Equal(t, &serial.Mode{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}, mode)
}

func TestPortOptions_Custom(t *testing.T) {
	mode, err := PortOptions{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "even"}.SerialMode()
	require.NoError(t, err)
	require.Equal(t, 9600, mode.BaudRate)
	require.Equal(t, 7, mode.DataBits)
	require.Equal(t, serial.EvenParity, mode.Parity)
	require.Equal(t, serial.TwoStopBits, mode.StopBits)
}

func TestPortOptions_Invalid(t *testing.T) {
	for _, opts := range []PortOptions{
		{DataBits: 9},
		{StopBits: 3},
		{Parity: "mark"},
	} {
		_, err := opts.Normalize()
		require.Error(t, err, "%+v", opts)
	}
}
