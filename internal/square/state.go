package square

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
)

// State is whatever the authorization flow stuffed into the OAuth
// state parameter. It is attacker-controlled input: nothing here is
// authenticated fact, and callers must treat Decoded=false (or any
// unsigned decoded payload) as a hint at best.
type State struct {
	Decoded bool

	TenantID     string `json:"tenant_id"`
	AgentID      string `json:"agent_id"`
	BusinessName string `json:"business_name"`
	ReturnTo     string `json:"return_to"`
	Environment  string `json:"environment"`
	Nonce        string `json:"nonce"`
}

// DecodeState tries base64url-encoded JSON first, then raw JSON, and
// otherwise returns a zero State with Decoded=false. It never fails.
func DecodeState(raw string) State {
	if raw == "" {
		return State{}
	}
	if b, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
		if st, ok := parseState(b); ok {
			return st
		}
	}
	if b, err := base64.URLEncoding.DecodeString(raw); err == nil {
		if st, ok := parseState(b); ok {
			return st
		}
	}
	if st, ok := parseState([]byte(raw)); ok {
		return st
	}
	return State{}
}

func parseState(b []byte) (State, bool) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return State{}, false
	}
	var st State
	if err := json.Unmarshal(trimmed, &st); err != nil {
		return State{}, false
	}
	st.Decoded = true
	return st, true
}
