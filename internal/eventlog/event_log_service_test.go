package eventlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picfolio/internal/testutil"
	"picfolio/models"
)

func TestEventLogService(t *testing.T) {
	factory := testutil.SetupTestRepositoryFactory(t)
	svc := NewEventLogService(factory.NewEventLogRepository(), testutil.SetupTestDBManager(t))
	ctx := context.Background()

	svc.Record(ctx, models.UserRegistered, "alice", "", "")
	svc.Record(ctx, models.ImageUploaded, "alice", "pets", "cat.jpg")
	svc.Record(ctx, models.AlbumDeleted, "alice", "pets", "")

	logs, err := svc.GetAll(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	assert.Equal(t, models.AlbumDeleted, logs[0].Type)
	assert.Equal(t, "[alice] deleted album pets", logs[0].Description)
	assert.Equal(t, "[alice] uploaded cat.jpg to pets", logs[1].Description)
	assert.Equal(t, "Account [alice] created", logs[2].Description)

	limited, err := svc.GetAll(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGenerateDescription_Fallbacks(t *testing.T) {
	assert.Equal(t, "[someone] deleted album unknown album", generateDescription(&models.EventLog{Type: models.AlbumDeleted}))
	assert.Equal(t, "Event occurred", generateDescription(&models.EventLog{Type: "Other"}))
}
