package square

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeStateBase64JSON(t *testing.T) {
	raw := base64.RawURLEncoding.EncodeToString([]byte(`{"tenant_id":"t-1","return_to":"/settings"}`))
	st := DecodeState(raw)
	assert.True(t, st.Decoded)
	assert.Equal(t, "t-1", st.TenantID)
	assert.Equal(t, "/settings", st.ReturnTo)
}

func TestDecodeStateRawJSON(t *testing.T) {
	st := DecodeState(`{"tenant_id":"t-2","agent_id":"a-9","business_name":"Luna Spa"}`)
	assert.True(t, st.Decoded)
	assert.Equal(t, "t-2", st.TenantID)
	assert.Equal(t, "a-9", st.AgentID)
	assert.Equal(t, "Luna Spa", st.BusinessName)
}

func TestDecodeStateGarbageNeverThrows(t *testing.T) {
	for _, raw := range []string{
		"",
		"not-json-at-all",
		"aGVsbG8", // base64 of "hello"
		"null",
		"[1,2,3]",
		"%%%%",
	} {
		st := DecodeState(raw)
		assert.False(t, st.Decoded, "input %q", raw)
		assert.Empty(t, st.TenantID)
	}
}

func TestDecodeStatePaddedBase64(t *testing.T) {
	raw := base64.URLEncoding.EncodeToString([]byte(`{"tenant_id":"t-3"}`))
	st := DecodeState(raw)
	assert.True(t, st.Decoded)
	assert.Equal(t, "t-3", st.TenantID)
}
