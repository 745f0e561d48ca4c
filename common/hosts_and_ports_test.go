package common

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetServerHost(t *testing.T) {
	t.Run("returns default 127.0.0.1 when CLICKUPAI_SERVER_HOST unset", func(t *testing.T) {
		os.Unsetenv("CLICKUPAI_SERVER_HOST")
		assert.Equal(t, "127.0.0.1", GetServerHost())
	})

	t.Run("returns CLICKUPAI_SERVER_HOST when set", func(t *testing.T) {
		t.Setenv("CLICKUPAI_SERVER_HOST", "0.0.0.0")
		assert.Equal(t, "0.0.0.0", GetServerHost())
	})
}

func TestGetServerPort(t *testing.T) {
	t.Run("returns default 8866 when CLICKUPAI_SERVER_PORT unset", func(t *testing.T) {
		os.Unsetenv("CLICKUPAI_SERVER_PORT")
		assert.Equal(t, 8866, GetServerPort())
	})

	t.Run("returns CLICKUPAI_SERVER_PORT when set", func(t *testing.T) {
		t.Setenv("CLICKUPAI_SERVER_PORT", "9000")
		assert.Equal(t, 9000, GetServerPort())
	})

	t.Run("panics on invalid port", func(t *testing.T) {
		t.Setenv("CLICKUPAI_SERVER_PORT", "not-a-port")
		assert.Panics(t, func() { GetServerPort() })
	})
}

func TestGetServerAddr(t *testing.T) {
	t.Setenv("CLICKUPAI_SERVER_HOST", "localhost")
	t.Setenv("CLICKUPAI_SERVER_PORT", "1234")
	assert.Equal(t, "localhost:1234", GetServerAddr())
}
