package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Record_And_List_Status(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewStatusRepository(db)

	for i := 0; i < 3; i++ {
		check, err := repository.RecordStatus(fmt.Sprintf("client_%d", i))
		req.NoError(err)
		req.NotEmpty(check.ID)
	}

	checks, err := repository.ListStatus()
	req.NoError(err)
	req.Len(checks, 3)
	req.Equal("client_0", checks[0].ClientName)
}
