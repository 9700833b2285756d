// Package store persists meetings, recordings and outcomes in SQLite.
//
// The database is the local cache of the workspace. Pulling writes manifest
// data into it, outcome generation appends artifacts, and the UI and CLI
// read from it so listing and playback work offline.
//
// # Basic Usage
//
//	st, err := store.Open(cfg.DatabasePath)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	meetings, err := st.ListMeetings(ctx)
//
// Participant and recording rows are replaced on every UpsertMeeting so the
// cache mirrors the latest manifest; locally generated outcomes survive
// refreshes.
package store
