package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

func TestConsole_SwitchTabRefreshesEnteredView(t *testing.T) {
	api := &fakeAPI{}
	c := New(api, 0)
	ctx := context.Background()

	require.NoError(t, c.SwitchTab(state.TabSources).Run(ctx))
	require.NoError(t, c.SwitchTab(state.TabLogs).Run(ctx))
	require.NoError(t, c.SwitchTab(state.TabSchedule).Run(ctx))
	assert.Nil(t, c.SwitchTab(state.TabJobs))

	assert.Equal(t, []string{"ListSources", "FetchLogs", "FetchSchedule"}, api.Calls())
	assert.Equal(t, state.TabJobs, c.Store.Tab())
}

func TestConsole_WiresSourceRunsToOrchestrator(t *testing.T) {
	api := &fakeAPI{
		listSources: func() ([]reqhunter.Source, error) {
			return []reqhunter.Source{{ID: 4, Name: "Initech"}}, nil
		},
	}
	c := New(api, 0)
	ctx := context.Background()
	require.NoError(t, c.SwitchTab(state.TabSources).Run(ctx))

	task := c.Sources.Run(4)
	require.NotNil(t, task)
	assert.True(t, c.Orchestrator.Running())
	require.NoError(t, task.Run(ctx))

	assert.Equal(t, []string{"ListSources", "RunScrape /scrape/run/4", "ListSources"}, api.Calls())
	assert.Equal(t, DefaultLogLimit, c.Logs.Limit())
}
