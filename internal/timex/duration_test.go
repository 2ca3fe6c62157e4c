package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"6h"`), &d))
	require.Equal(t, 6*time.Hour, d.Duration)
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	require.Equal(t, time.Second, d.Duration)
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	require.Error(t, json.Unmarshal([]byte(`true`), &d))
	require.Error(t, json.Unmarshal([]byte(`"nonsense"`), &d))
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(Duration{30 * time.Second})
	require.NoError(t, err)

	var d Duration
	require.NoError(t, json.Unmarshal(b, &d))
	require.Equal(t, 30*time.Second, d.Duration)
}
