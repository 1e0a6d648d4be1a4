package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkReadRequestUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    string
		present bool
	}{
		{"string", `{"id":"1"}`, "1", true},
		{"integer", `{"id":2}`, "2", true},
		{"decimal", `{"id":2.5}`, "2.5", true},
		{"negative", `{"id":-3}`, "-3", true},
		{"large", `{"id":1e21}`, "1e+21", true},
		{"tiny", `{"id":1.5e-7}`, "1.5e-7", true},
		{"out of range", `{"id":1e400}`, "Infinity", true},
		{"true", `{"id":true}`, "true", true},
		{"object", `{"id":{}}`, "[object Object]", true},
		{"single element array", `{"id":["1"]}`, "1", true},
		{"array", `{"id":[1,null,"a",[2,3]]}`, "1,,a,2,3", true},
		{"empty array", `{"id":[]}`, "", true},
		{"whitespace", `{"id":" "}`, " ", true},
		{"last duplicate wins", `{"id":"1","id":"2"}`, "2", true},
		{"empty string", `{"id":""}`, "", false},
		{"zero", `{"id":0}`, "", false},
		{"negative zero", `{"id":-0}`, "", false},
		{"null", `{"id":null}`, "", false},
		{"false", `{"id":false}`, "", false},
		{"absent", `{}`, "", false},
		{"upper case key", `{"ID":"1"}`, "", false},
		{"mixed case key", `{"Id":"2"}`, "", false},
		{"null body", `null`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req MarkReadRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			require.Equal(t, tc.want, req.ID)
			require.Equal(t, tc.present, req.Present)
		})
	}
}

func TestMarkReadRequestRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[]`, `"1"`, `1`, `{"id":`} {
		var req MarkReadRequest
		require.Error(t, json.Unmarshal([]byte(body), &req), body)
		require.False(t, req.Present)
	}
}

func TestStatusResponseOmitsEmptyID(t *testing.T) {
	b, err := json.Marshal(StatusResponse{Success: false, Message: "Notification ID is missing."})
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"message":"Notification ID is missing."}`, string(b))
}
