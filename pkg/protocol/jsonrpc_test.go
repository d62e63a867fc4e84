package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDTaggedVariantEquality(t *testing.T) {
	assert.True(t, NewStringID("1").Equal(NewStringID("1")))
	assert.True(t, NewIntID(1).Equal(NewIntID(1)))
	assert.False(t, NewStringID("1").Equal(NewIntID(1)))
	assert.False(t, NewIntID(1).Equal(NewStringID("1")))
	assert.True(t, RequestID{}.Equal(RequestID{}))
}

func TestRequestIDRoundTrip(t *testing.T) {
	for _, id := range []RequestID{NewStringID("abc"), NewIntID(42)} {
		raw, err := json.Marshal(id)
		require.NoError(t, err)

		var out RequestID
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.True(t, id.Equal(out))
	}
}

func TestRequestIDZeroMarshalsNull(t *testing.T) {
	raw, err := json.Marshal(RequestID{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestRequestIDUnmarshalRejectsOtherTypes(t *testing.T) {
	var id RequestID
	err := json.Unmarshal([]byte("true"), &id)
	assert.Error(t, err)
}

func TestParseClientMessageRequest(t *testing.T) {
	req, notif, err := ParseClientMessage([]byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Nil(t, notif)
	assert.Equal(t, MethodPing, req.Method)
	assert.True(t, req.ID.Equal(NewIntID(1)))
	assert.False(t, req.IsNotification())
}

func TestParseClientMessageNotification(t *testing.T) {
	req, notif, err := ParseClientMessage([]byte(`{"jsonrpc":"2.0","method":"cancelled","params":{"requestId":1}}`))
	require.NoError(t, err)
	assert.Nil(t, req)
	require.NotNil(t, notif)
	assert.Equal(t, "cancelled", notif.Method)
}

func TestAsErrorDefaultsToInternal(t *testing.T) {
	err := AsError(assertError("boom"))
	assert.Equal(t, ErrInternal, err.Code)
	assert.Contains(t, err.Message, "boom")
}

func TestAsErrorPassesThroughProtocolError(t *testing.T) {
	original := NewError(ErrNotFound, "missing %s", "x")
	err := AsError(original)
	assert.Same(t, original, err)
}

type assertError string

func (e assertError) Error() string { return string(e) }
