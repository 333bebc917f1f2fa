package session

import (
	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/wizard"
)

// LocationView is the render state of the location widget.
type LocationView struct {
	Set       bool   `json:"set"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Label     string `json:"label,omitempty"`
	MapURL    string `json:"mapUrl"`
	Locating  bool   `json:"locating"`
}

// View is a consistent snapshot of everything the wizard pages render.
type View struct {
	Authenticated bool                   `json:"authenticated"`
	DisplayName   string                 `json:"displayName"`
	Step          model.Step             `json:"step"`
	StepCount     int                    `json:"stepCount"`
	Progress      []wizard.Progress      `json:"progress"`
	IsFirst       bool                   `json:"isFirst"`
	IsTerminal    bool                   `json:"isTerminal"`
	Gated         bool                   `json:"gated"`
	Draft         model.ApplicationDraft `json:"draft"`
	Review        wizard.Review          `json:"review"`
	Location      LocationView           `json:"location"`
	Busy          bool                   `json:"busy"`
}

// View captures the current render state under the session lock.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.draft.Snapshot()
	lat, lng := s.location.Inputs()
	_, set := s.location.Position()

	return View{
		Authenticated: s.user != nil,
		DisplayName:   model.DisplayName(s.user, s.profile),
		Step:          s.wizard.Current(),
		StepCount:     s.wizard.Count(),
		Progress:      s.wizard.Progress(),
		IsFirst:       s.wizard.IsFirst(),
		IsTerminal:    s.wizard.IsTerminal(),
		Gated:         s.wizard.Gated(),
		Draft:         snapshot,
		Review:        wizard.BuildReview(snapshot, s.opts.catalog.ApplicationType),
		Location: LocationView{
			Set:       set,
			Latitude:  lat,
			Longitude: lng,
			Label:     s.location.Label(),
			MapURL:    s.location.MapEmbedURL(),
			Locating:  s.location.Locating(),
		},
		Busy: s.pipeline.Busy(),
	}
}
