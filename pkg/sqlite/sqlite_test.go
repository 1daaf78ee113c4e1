package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVecExtensionLoaded(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var version string
	require.NoError(t, db.QueryRow("SELECT vec_version()").Scan(&version))
	assert.NotEmpty(t, version)
}

func TestNearestNeighbour(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE VIRTUAL TABLE vec_test USING vec0(embedding float[3])`)
	require.NoError(t, err)

	vectors := map[int64][]float32{
		1: {1, 0, 0},
		2: {0, 1, 0},
		3: {0.9, 0.1, 0},
	}
	for id, v := range vectors {
		blob, err := SerializeVector(v)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO vec_test(rowid, embedding) VALUES (?, ?)`, id, blob)
		require.NoError(t, err)
	}

	query, err := SerializeVector([]float32{1, 0, 0})
	require.NoError(t, err)

	rows, err := db.Query(`SELECT rowid FROM vec_test WHERE embedding MATCH ? AND k = 2 ORDER BY distance`, query)
	require.NoError(t, err)
	defer rows.Close()

	var got []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		got = append(got, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int64{1, 3}, got)
}
