package powerof10

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		err  *Error
		want error
	}{
		{validationError("SearchAthletes", "missing %s", "surname"), ErrValidation},
		{broadQueryError("SearchAthletes", "Too many athletes found."), ErrBroadQuery},
		{notFoundError("GetAthlete", "Profile not found"), ErrNotFound},
		{transportError("GetAthlete", errors.New("dial tcp: refused")), ErrTransport},
		{extractionError("GetRankings", "short row"), ErrExtraction},
	}

	all := []error{ErrValidation, ErrBroadQuery, ErrNotFound, ErrTransport, ErrExtraction}
	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			for _, sentinel := range all {
				require.Equal(t, sentinel == tt.want, errors.Is(wrapped, sentinel), "sentinel %v", sentinel)
			}

			var perr *Error
			require.True(t, errors.As(wrapped, &perr))
			require.Equal(t, tt.err.Msg, perr.Msg)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := transportError("SearchCoaches", cause)
	require.Equal(t, "SearchCoaches: request failed: connection reset", err.Error())
	require.ErrorIs(t, err, cause)

	err = notFoundError("GetMeetingResults", "Meeting not found. Please input a valid meeting id")
	require.Equal(t, "GetMeetingResults: Meeting not found. Please input a valid meeting id", err.Error())

	err = &Error{Kind: KindExtraction, Op: "GetAthlete"}
	require.Equal(t, "GetAthlete: extraction", err.Error())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "broad query", KindBroadQuery.String())
	require.Equal(t, "kind(42)", Kind(42).String())
}
