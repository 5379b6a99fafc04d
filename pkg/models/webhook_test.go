package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []InboundMessage
	}{
		{"empty object", `{}`, nil},
		{"entry without changes", `{"entry":[{}]}`, nil},
		{"change without value", `{"entry":[{"changes":[{"field":"messages"}]}]}`, nil},
		{"status callback", `{"entry":[{"changes":[{"value":{"statuses":[{"id":"s1","status":"read"}]}}]}]}`, nil},
		{
			"profile name",
			`{"entry":[{"changes":[{"value":{
				"contacts":[{"wa_id":"111","profile":{"name":"Ada"}}],
				"messages":[{"from":"111","id":"m1","type":"text","text":{"body":"hi"}}]}}]}]}`,
			[]InboundMessage{{MessageID: "m1", From: "111", ContactName: "Ada", Body: "hi"}},
		},
		{
			"empty profile name",
			`{"entry":[{"changes":[{"value":{
				"contacts":[{"wa_id":"111","profile":{"name":""}}],
				"messages":[{"from":"111","type":"text","text":{"body":"hi"}}]}}]}]}`,
			[]InboundMessage{{From: "111", ContactName: "111", Body: "hi"}},
		},
		{
			"contact for another sender",
			`{"entry":[{"changes":[{"value":{
				"contacts":[{"wa_id":"222","profile":{"name":"Bob"}}],
				"messages":[{"from":"111","type":"text","text":{"body":"hi"}}]}}]}]}`,
			[]InboundMessage{{From: "111", ContactName: "111", Body: "hi"}},
		},
		{
			"non text skipped, order kept",
			`{"entry":[
				{"changes":[{"value":{"messages":[
					{"from":"1","type":"image"},
					{"from":"2","type":"text","text":{"body":"a"}}]}}]},
				{"changes":[{"value":{"messages":[{"from":"3","type":"text"}]}}]}]}`,
			[]InboundMessage{
				{From: "2", ContactName: "2", Body: "a"},
				{From: "3", ContactName: "3", Body: ""},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p WebhookPayload
			if err := json.Unmarshal([]byte(tc.body), &p); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := p.Normalize(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
