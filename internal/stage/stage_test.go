package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
)

func recorder(log *[]string, name string, err error) Stage {
	return Func(func(context.Context) error {
		*log = append(*log, name)
		return err
	})
}

func TestRunner_RunAll_InsertionOrder(t *testing.T) {
	// Given: three stages
	var log []string
	r := NewRunner()
	r.Add(recorder(&log, "a", nil))
	r.Add(recorder(&log, "b", nil))
	r.Add(recorder(&log, "c", nil))

	// When: running all
	err := r.RunAll(context.Background())

	// Then: they ran in the order added
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, log)
}

func TestRunner_Add_AllowsDuplicates(t *testing.T) {
	var log []string
	s := recorder(&log, "again", nil)
	r := NewRunner()
	r.Add(s)
	r.Add(s)

	require.NoError(t, r.RunAll(context.Background()))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"again", "again"}, log)
}

func TestRunner_RunAll_StopsAtFirstFailure(t *testing.T) {
	// Given: a failing middle stage
	var log []string
	boom := errors.New("boom")
	r := NewRunner()
	r.Add(recorder(&log, "a", nil))
	r.Add(recorder(&log, "b", boom))
	r.Add(recorder(&log, "c", nil))

	// When: running all
	err := r.RunAll(context.Background())

	// Then: the error is returned with its position and the last stage never ran
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "stage 2")
	assert.Equal(t, alfserrors.ErrCodeStageFailed, alfserrors.GetCode(err))
	assert.Equal(t, []string{"a", "b"}, log)
}

func TestRunner_RunAll_KeepsCodedErrors(t *testing.T) {
	// Given: a stage failing with a fatal coded error
	fatal := alfserrors.New(alfserrors.ErrCodeNoPartitions, "No partitions available.", nil)
	r := NewRunner()
	r.Add(Func(func(context.Context) error { return fatal }))

	// When: running all
	err := r.RunAll(context.Background())

	// Then: the code and severity survive the position wrap
	require.Error(t, err)
	assert.True(t, errors.Is(err, fatal))
	assert.True(t, alfserrors.IsFatal(err))
	assert.Equal(t, "FATAL: No partitions available.\n  Code: ERR_302_NO_PARTITIONS\n", alfserrors.FormatForCLI(err))
}

func TestRunner_RunAll_Empty(t *testing.T) {
	assert.NoError(t, NewRunner().RunAll(context.Background()))
}

func TestRunner_RunAll_CancelledContext(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Add(recorder(&log, "a", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.RunAll(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, alfserrors.ErrCodeInterrupted, alfserrors.GetCode(err))
	assert.Empty(t, log)
}
