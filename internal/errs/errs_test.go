package errs

import (
	stderrors "errors"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := NotFound("token %s on %s", "usdc", "polygon")

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrTimeout))
	assert.Equal(t, "[NOT_FOUND] token usdc on polygon", err.Error())
}

func TestIs_ThroughPkgErrorsWrap(t *testing.T) {
	err := errors.Wrap(Timeout("no funds within %s", "5s"), "wait")

	assert.True(t, stderrors.Is(err, ErrTimeout))
	assert.Equal(t, CodeTimeout, CodeOf(err))
}

func TestFunding_CarriesSwapID(t *testing.T) {
	cause := stderrors.New("insufficient balance")
	err := Funding("swap-1", cause)

	got, ok := From(errors.WithStack(err))
	require.True(t, ok)
	assert.Equal(t, "swap-1", got.SwapID)
	assert.Equal(t, CodeFunding, got.Code())
	assert.ErrorIs(t, err, cause)
}

func TestRemote_KeepsRemoteMessage(t *testing.T) {
	err := Remote(409, "swap already claimed", nil)

	assert.Equal(t, "swap already claimed", err.Message())
	assert.Equal(t, 409, err.StatusCode)
	assert.True(t, stderrors.Is(err, ErrRemote))
}

func TestCodeOf_Unknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(stderrors.New("plain")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}
