package app

import "tichu/internal/domain"

// SeatView is the public face of one seat.
type SeatView struct {
	Seat     int         `json:"seat"`
	HandSize int         `json:"hand_size"`
	Call     domain.Call `json:"call"`
	Finished bool        `json:"finished"`
}

// TrickView shows the plays currently on the table.
type TrickView struct {
	Leader      int                `json:"leader"`
	WinningSeat int                `json:"winning_seat"`
	Plays       []domain.TrickPlay `json:"plays"`
}

// SnapshotPayload is the full view delivered privately on join or
// reconnect. Hand is filled only for a seated recipient; spectators get the
// public portion alone.
type SnapshotPayload struct {
	Seat        int               `json:"seat"`
	Phase       domain.RoundPhase `json:"phase"`
	RoundNumber int               `json:"round_number"`
	Target      int               `json:"target"`
	Scores      [2]int            `json:"scores"`
	Turn        int               `json:"turn"`
	WishRank    domain.Rank       `json:"wish_rank"`
	PendingGift int               `json:"pending_gift"`
	NextSeq     uint64            `json:"next_seq"`
	SeatViews   [4]SeatView       `json:"seats"`
	Trick       *TrickView        `json:"trick,omitempty"`
	Hand        []domain.Card     `json:"hand,omitempty"`
}

// BuildSnapshot assembles the current match view for one recipient. Pass a
// negative seat for spectators.
func BuildSnapshot(m *domain.Match, seat int) SnapshotPayload {
	r := m.Round
	snap := SnapshotPayload{
		Seat:        seat,
		Phase:       r.Phase,
		RoundNumber: m.RoundNumber,
		Target:      m.Target,
		Scores:      m.Scores,
		Turn:        r.Turn,
		WishRank:    r.WishRank,
		PendingGift: r.PendingGiftSeat,
		NextSeq:     m.NextSeq,
	}
	finished := make(map[int]bool, len(r.FinishOrder))
	for _, s := range r.FinishOrder {
		finished[s] = true
	}
	for s := 0; s < 4; s++ {
		snap.SeatViews[s] = SeatView{
			Seat:     s,
			HandSize: len(r.Hands[s]),
			Call:     r.Calls[s],
			Finished: finished[s],
		}
	}
	if r.Trick != nil {
		snap.Trick = &TrickView{
			Leader:      r.Trick.Leader,
			WinningSeat: r.Trick.WinningSeat,
			Plays:       r.Trick.Plays,
		}
	}
	if seat >= 0 && seat < 4 {
		snap.Hand = r.Hands[seat]
	}
	return snap
}
