package controllers

import (
	"encoding/json"
	"testing"
)

func parseEnvelope(t *testing.T, raw string) metaEnvelope {
	t.Helper()
	var payload metaEnvelope
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return payload
}

func TestExtractInbound_WhatsApp(t *testing.T) {
	payload := parseEnvelope(t, `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "waba-123",
			"changes": [{
				"field": "messages",
				"value": {
					"messages": [
						{"from": "5511999990000", "id": "wamid.A", "type": "text", "text": {"body": " hello "}},
						{"from": "5511999990001", "id": "wamid.B", "type": "image"}
					]
				}
			}]
		}]
	}`)

	got := extractInbound(payload)
	if len(got) != 1 {
		t.Fatalf("only text messages pass, got %d", len(got))
	}
	m := got[0]
	if m.Platform != "whatsapp" || m.BusinessID != "waba-123" || m.SenderID != "5511999990000" {
		t.Fatalf("unexpected mapping: %+v", m)
	}
	if m.MessageID != "wamid.A" || m.Text != "hello" {
		t.Fatalf("id/body not carried: %+v", m)
	}
}

func TestExtractInbound_Instagram(t *testing.T) {
	payload := parseEnvelope(t, `{
		"object": "instagram",
		"entry": [{
			"id": "ig-77",
			"messaging": [
				{"sender": {"id": "900100"}, "message": {"mid": "mid.1", "text": "is this available?"}},
				{"sender": {"id": "900101"}, "message": {"mid": "mid.2", "text": "   "}}
			]
		}]
	}`)

	got := extractInbound(payload)
	if len(got) != 1 {
		t.Fatalf("empty texts are dropped, got %d", len(got))
	}
	m := got[0]
	if m.Platform != "instagram" || m.BusinessID != "ig-77" || m.SenderID != "900100" {
		t.Fatalf("unexpected mapping: %+v", m)
	}
	if m.MessageID != "mid.1" {
		t.Fatalf("mid not carried: %+v", m)
	}
}

func TestExtractInbound_UnknownObject(t *testing.T) {
	payload := parseEnvelope(t, `{"object": "page", "entry": [{"id": "x"}]}`)
	if got := extractInbound(payload); len(got) != 0 {
		t.Fatalf("unknown objects yield nothing, got %+v", got)
	}
}
