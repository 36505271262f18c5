package rank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/gridassess/internal/assess"
	"github.com/gridops/gridassess/internal/rank"
	"github.com/gridops/gridassess/internal/store"
)

func entry(leaderID int64, name string, total float64) store.LeaderAssessment {
	return store.LeaderAssessment{
		Assessment: store.Assessment{
			LeaderID:   leaderID,
			Date:       "2026/08/01",
			TotalScore: total,
		},
		Name: name,
		Area: "区域",
	}
}

func TestBoardRanking(t *testing.T) {
	b, err := rank.NewBoard()
	require.NoError(t, err)

	require.NoError(t, b.Reload([]store.LeaderAssessment{
		entry(1, "张三", 88),
		entry(2, "李四", 61),
		entry(3, "王五", 76),
	}))

	snapshot, err := b.Snapshot()
	require.NoError(t, err)
	require.Len(t, snapshot, 3)

	assert.Equal(t, []int64{1, 3, 2}, []int64{
		snapshot[0].LeaderID, snapshot[1].LeaderID, snapshot[2].LeaderID,
	})
	assert.Equal(t, 1, snapshot[0].Rank)
	assert.Equal(t, assess.GradeExcellent, snapshot[0].Grade)
	assert.Equal(t, assess.GradeGood, snapshot[1].Grade)
	assert.Equal(t, assess.GradePass, snapshot[2].Grade)
}

func TestBoardReloadReplaces(t *testing.T) {
	b, err := rank.NewBoard()
	require.NoError(t, err)

	require.NoError(t, b.Reload([]store.LeaderAssessment{entry(1, "张三", 50)}))
	require.NoError(t, b.Reload([]store.LeaderAssessment{entry(2, "李四", 90)}))

	snapshot, err := b.Snapshot()
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(2), snapshot[0].LeaderID)

	_, ok := b.Get(1)
	assert.False(t, ok)
}

func TestBoardGet(t *testing.T) {
	b, err := rank.NewBoard()
	require.NoError(t, err)

	require.NoError(t, b.Reload([]store.LeaderAssessment{
		entry(1, "张三", 59),
		entry(2, "李四", 80),
	}))

	st, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, 2, st.Rank)
	assert.Equal(t, assess.GradeNeedsImprovement, st.Grade)
}

func TestBoardEmpty(t *testing.T) {
	b, err := rank.NewBoard()
	require.NoError(t, err)

	snapshot, err := b.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}
