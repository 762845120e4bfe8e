package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set_Valid(t *testing.T) {
	var a NetAddress
	require.NoError(t, a.Set("localhost:8080"))
	assert.Equal(t, "localhost", a.Host)
	assert.Equal(t, 8080, a.Port)
	assert.Equal(t, "localhost:8080", a.String())
}

func TestNetAddress_Set_ValidIP(t *testing.T) {
	var a NetAddress
	require.NoError(t, a.Set("127.0.0.1:9090"))
	assert.Equal(t, "127.0.0.1", a.Host)
	assert.Equal(t, 9090, a.Port)
}

func TestNetAddress_Set_MissingPort(t *testing.T) {
	var a NetAddress
	require.Error(t, a.Set("localhost"))
}

func TestNetAddress_Set_NonNumericPort(t *testing.T) {
	var a NetAddress
	require.Error(t, a.Set("localhost:abc"))
}

func TestNetAddress_Set_NegativePort(t *testing.T) {
	var a NetAddress
	require.Error(t, a.Set("localhost:-1"))
}

func TestNetAddress_Set_BadIP(t *testing.T) {
	var a NetAddress
	require.Error(t, a.Set("not-an-ip:8080"))
}

func TestNetAddress_String_Empty(t *testing.T) {
	var a NetAddress
	assert.Equal(t, "", a.String())
}
