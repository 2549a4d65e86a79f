package collision

import (
	"testing"

	"github.com/arloliu/autofmu/errs"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Empty(t, tracker.Paths())
}

func TestTracker_Track_Success(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("modelDescription.xml"))
	require.NoError(t, tracker.Track("sources/headers/fmi2Functions.h"))
	require.Equal(t, []string{"modelDescription.xml", "sources/headers/fmi2Functions.h"}, tracker.Paths())
}

func TestTracker_Track_Duplicate(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("sources/model.c"))
	err := tracker.Track("sources/model.c")

	require.ErrorIs(t, err, errs.ErrPathCollision)
	require.ErrorIs(t, err, errs.ErrPackaging)
	require.Equal(t, []string{"sources/model.c"}, tracker.Paths())
}

func TestTracker_Track_CaseVariant(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("sources/headers/FMI2Functions.h"))
	err := tracker.Track("sources/headers/fmi2functions.h")

	require.ErrorIs(t, err, errs.ErrPathCollision)
	require.Contains(t, err.Error(), "differ only by case")
	require.Equal(t, []string{"sources/headers/FMI2Functions.h"}, tracker.Paths())
}

func TestTracker_Track_EmptyPath(t *testing.T) {
	tracker := NewTracker()

	require.ErrorIs(t, tracker.Track(""), errs.ErrInvalidPath)
	require.Empty(t, tracker.Paths())
}
