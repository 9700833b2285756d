package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/xrehpicx/standup/internal/config"
	"github.com/xrehpicx/standup/internal/model"
	"github.com/xrehpicx/standup/internal/store"
)

// commandContext carries lazily initialized shared state across subcommands.
type commandContext struct {
	configFlag *string

	settings *config.Settings
	store    *store.Store
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	if c.settings != nil {
		return c.settings, nil
	}
	path := config.DefaultPath()
	if c.configFlag != nil && *c.configFlag != "" {
		path = *c.configFlag
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	c.settings = settings
	return settings, nil
}

func (c *commandContext) ensureStore() (*store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(settings.DatabasePath)
	if err != nil {
		return nil, err
	}
	c.store = st
	return st, nil
}

// resolveMeeting looks up a meeting by UUID, by 1-based list position, or by
// exact title. The list positions match the output of "standup list".
func (c *commandContext) resolveMeeting(ctx context.Context, ref string) (*model.Meeting, error) {
	st, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	if id, err := uuid.Parse(ref); err == nil {
		return st.GetMeeting(ctx, id)
	}
	meetings, err := st.ListMeetings(ctx)
	if err != nil {
		return nil, err
	}
	if index, err := strconv.Atoi(ref); err == nil && index >= 1 && index <= len(meetings) {
		return meetings[index-1], nil
	}
	for _, meeting := range meetings {
		if meeting.Title == ref {
			return meeting, nil
		}
	}
	return nil, fmt.Errorf("no meeting matches %q", ref)
}
