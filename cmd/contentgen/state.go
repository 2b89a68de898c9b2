package main

import (
	"errors"

	"github.com/wcforge/contentgen/internal/session"
)

// openSession builds the session for the target product, restoring any
// results and selections saved by earlier invocations.
func openSession() (*session.Session, *session.FileStore, error) {
	id, err := target()
	if err != nil {
		return nil, nil, err
	}
	if err := app.home.EnsureExists(); err != nil {
		return nil, nil, err
	}

	s := session.New(session.Config{
		Client:   app.client,
		Target:   id,
		Defaults: app.config.Get().PromptDefaults(),
		Logger:   app.logger,
	})
	logEvents(s)

	store := session.NewFileStore(app.home.SessionsPath())
	st, err := store.Load(id)
	switch {
	case errors.Is(err, session.ErrNoState):
		app.logger.Debug("starting new session", "product_id", id)
	case err != nil:
		s.Close()
		return nil, nil, err
	default:
		s.Restore(st)
		app.logger.Debug("restored session", "product_id", id, "session", st.ID, "updated_at", st.UpdatedAt)
	}
	return s, store, nil
}

// saveSession persists s and closes its event stream.
func saveSession(s *session.Session, store *session.FileStore) error {
	defer s.Close()
	return store.Save(s.State())
}

// logEvents logs every session event at debug level until the session closes.
func logEvents(s *session.Session) {
	logger := app.logger
	events, _ := s.Subscribe(session.DefaultEventBuffer)
	go func() {
		for ev := range events {
			attrs := []any{"kind", ev.Kind, "op", ev.Op, "product_id", ev.Target}
			if ev.Field != "" {
				attrs = append(attrs, "field", ev.Field)
			}
			if ev.Err != nil {
				attrs = append(attrs, "error", ev.Err)
			}
			logger.Debug("session event", attrs...)
		}
	}()
}
