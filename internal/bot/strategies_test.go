package bot

import (
	"testing"

	"tichu/internal/app"
	"tichu/internal/bot/brain"
	"tichu/internal/domain"
)

func card(suit domain.Suit, rank domain.Rank) domain.Card {
	return domain.Card{Suit: suit, Rank: rank}
}

func roundWithHand(seat int, hand []domain.Card) *domain.Round {
	r := &domain.Round{
		Phase:           domain.PhasePlaying,
		Turn:            seat,
		PendingGiftSeat: -1,
	}
	r.Hands[seat] = hand
	return r
}

func followTrick(r *domain.Round, leader int, combo domain.Combination) {
	t := domain.NewTrick(leader)
	t.Apply(leader, combo)
	r.Trick = t
}

func mustClassify(t *testing.T, cards ...domain.Card) domain.Combination {
	t.Helper()
	combo, err := domain.Classify(cards)
	if err != nil {
		t.Fatalf("classify %v: %v", cards, err)
	}
	return combo
}

func TestStandardBrainNeverCalls(t *testing.T) {
	b := &StandardBrain{}
	monster := []domain.Card{
		domain.Dragon, domain.Phoenix,
		card(domain.Black, domain.RankAce), card(domain.Blue, domain.RankAce),
		card(domain.Red, domain.RankAce), card(domain.Green, domain.RankAce),
		card(domain.Black, domain.RankKing), card(domain.Blue, domain.RankKing),
	}
	if b.DecideGrand(monster) {
		t.Fatal("standard brain must not call grand tichu")
	}
	if b.DecideTichu(monster) {
		t.Fatal("standard brain must not call tichu")
	}
}

func TestStandardBrainExchangeShipsLowest(t *testing.T) {
	b := &StandardBrain{}
	hand := []domain.Card{
		card(domain.Black, domain.RankAce),
		card(domain.Blue, 2),
		card(domain.Red, 9),
		card(domain.Green, 3),
		card(domain.Black, 5),
	}
	exch := b.ChooseExchange(hand)

	if exch.Left != card(domain.Blue, 2) {
		t.Fatalf("left should get the lowest card, got %v", exch.Left)
	}
	if exch.Right != card(domain.Green, 3) {
		t.Fatalf("right should get the second lowest, got %v", exch.Right)
	}
	if exch.Partner != card(domain.Black, 5) {
		t.Fatalf("partner should get the best of the three lowest, got %v", exch.Partner)
	}
}

func TestStandardBrainPlaysLowestLegal(t *testing.T) {
	b := &StandardBrain{}
	hand := []domain.Card{
		card(domain.Black, 4),
		card(domain.Blue, domain.RankKing),
		card(domain.Red, 8),
	}
	r := roundWithHand(0, hand)
	followTrick(r, 1, mustClassify(t, card(domain.Green, 6)))

	move, err := b.CalculateMove(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass {
		t.Fatal("expected a play, got pass")
	}
	if len(move.Cards) != 1 || move.Cards[0] != card(domain.Red, 8) {
		t.Fatalf("expected the 8 as the cheapest cover, got %v", move.Cards)
	}
}

func TestStandardBrainPassesOnWinningPartner(t *testing.T) {
	b := &StandardBrain{}
	hand := []domain.Card{card(domain.Black, domain.RankKing)}
	r := roundWithHand(0, hand)
	followTrick(r, 2, mustClassify(t, card(domain.Green, 6)))

	move, err := b.CalculateMove(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !move.Pass {
		t.Fatalf("partner holds the trick, expected pass, got %v", move.Cards)
	}
}

func TestStandardBrainWishForcesPlayOverPartner(t *testing.T) {
	b := &StandardBrain{}
	hand := []domain.Card{card(domain.Black, domain.RankKing)}
	r := roundWithHand(0, hand)
	followTrick(r, 2, mustClassify(t, card(domain.Green, 6)))
	r.WishRank = domain.RankKing

	move, err := b.CalculateMove(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass {
		t.Fatal("active wish must force the king out")
	}
	if move.Cards[0] != card(domain.Black, domain.RankKing) {
		t.Fatalf("expected the wished king, got %v", move.Cards)
	}
}

func TestStandardBrainholdsBombsWhenFollowing(t *testing.T) {
	b := &StandardBrain{}
	hand := []domain.Card{
		card(domain.Black, 7), card(domain.Blue, 7),
		card(domain.Red, 7), card(domain.Green, 7),
	}
	r := roundWithHand(0, hand)
	followTrick(r, 1, mustClassify(t, card(domain.Green, domain.RankAce)))

	move, err := b.CalculateMove(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !move.Pass {
		t.Fatalf("only a bomb could cover, standard brain should pass, got %v", move.Cards)
	}
}

func TestStandardBrainBombsAFatPile(t *testing.T) {
	b := &StandardBrain{}
	hand := []domain.Card{
		card(domain.Black, 7), card(domain.Blue, 7),
		card(domain.Red, 7), card(domain.Green, 7),
	}
	r := roundWithHand(0, hand)
	tr := domain.NewTrick(1)
	tr.Apply(1, mustClassify(t, card(domain.Black, 10)))
	tr.Apply(3, mustClassify(t, card(domain.Green, domain.RankKing)))
	r.Trick = tr

	move, err := b.CalculateMove(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass {
		t.Fatal("a ten and a king on the pile pay for the bomb")
	}
	if len(move.Cards) != 4 {
		t.Fatalf("expected the quad, got %v", move.Cards)
	}
}

func TestStandardBrainNamesWishWithMahjong(t *testing.T) {
	b := &StandardBrain{}
	hand := []domain.Card{
		domain.Mahjong,
		card(domain.Black, 2),
		card(domain.Blue, domain.RankKing),
	}
	r := roundWithHand(0, hand)

	move, err := b.CalculateMove(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass {
		t.Fatal("leading seat cannot pass")
	}
	if move.Cards[0] != domain.Mahjong {
		t.Fatalf("expected the mahjong lead, got %v", move.Cards)
	}
	if move.Wish < 2 || move.Wish > domain.RankAce {
		t.Fatalf("mahjong play must name a wish, got %v", move.Wish)
	}
	if move.Wish == 2 {
		t.Fatal("wish should skip ranks still held")
	}
}

func TestStandardBrainGiftTargetPrefersBiggerHand(t *testing.T) {
	b := &StandardBrain{}
	r := roundWithHand(0, []domain.Card{card(domain.Black, 5)})
	r.Hands[1] = []domain.Card{card(domain.Blue, 3)}
	r.Hands[3] = []domain.Card{card(domain.Red, 4), card(domain.Green, 9)}

	if got := b.ChooseGiftTarget(r, 0); got != 3 {
		t.Fatalf("expected gift to seat 3 with the bigger hand, got %d", got)
	}
}

func TestSmartBrainCallsGrandOnMonsterHand(t *testing.T) {
	b := NewSmartBrain()
	monster := []domain.Card{
		domain.Dragon, domain.Phoenix,
		card(domain.Black, domain.RankAce),
		card(domain.Blue, domain.RankKing),
		card(domain.Red, domain.RankKing),
		card(domain.Green, 9),
		card(domain.Black, 8),
		card(domain.Blue, 4),
	}
	if !b.DecideGrand(monster) {
		t.Fatal("two anchors plus an ace should call grand")
	}

	junk := []domain.Card{
		card(domain.Black, 2), card(domain.Blue, 3),
		card(domain.Red, 5), card(domain.Green, 6),
		card(domain.Black, 8), card(domain.Blue, 9),
		card(domain.Red, 10), card(domain.Green, 4),
	}
	if b.DecideGrand(junk) {
		t.Fatal("junk hand must not call grand")
	}
}

func TestSmartBrainGiftAvoidsTichuCaller(t *testing.T) {
	b := NewSmartBrain()
	r := roundWithHand(0, []domain.Card{card(domain.Black, 5)})
	r.Hands[1] = []domain.Card{card(domain.Blue, 3), card(domain.Red, 4)}
	r.Hands[3] = []domain.Card{card(domain.Green, 9)}
	r.Calls[1] = domain.CallTichu

	if got := b.ChooseGiftTarget(r, 0); got != 3 {
		t.Fatalf("gift must avoid the tichu caller, got seat %d", got)
	}
}

func TestSmartBrainLeadsLegalMove(t *testing.T) {
	b := NewSmartBrain()
	hand := []domain.Card{
		card(domain.Black, 4), card(domain.Blue, 4),
		card(domain.Red, 9), card(domain.Green, domain.RankQueen),
	}
	r := roundWithHand(0, hand)

	move, err := b.CalculateMove(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass {
		t.Fatal("leading seat cannot pass")
	}
	if !domain.ContainsAll(hand, move.Cards) {
		t.Fatalf("move %v not drawn from hand %v", move.Cards, hand)
	}
	if _, err := domain.Classify(move.Cards); err != nil {
		t.Fatalf("move %v is not a valid combination: %v", move.Cards, err)
	}
}

func TestSmartBrainMemoryObservesEvents(t *testing.T) {
	b := NewSmartBrain()
	played := []domain.Card{card(domain.Red, domain.RankAce)}

	b.OnEvent(app.CardsPlayedPayload{Seat: 2, Cards: played})
	if b.memory.Status(played[0]) != brain.StatusPlayed {
		t.Fatal("played cards should land in the memory")
	}

	b.OnEvent(app.RoundStartedPayload{RoundNumber: 2})
	if b.memory.Status(played[0]) != brain.StatusUnknown {
		t.Fatal("a new round should reset the memory")
	}
}

func TestAgentPlaysEmptyHandAsPass(t *testing.T) {
	agent := &Agent{ID: "bot-1", Name: "Bot", Strategy: &StandardBrain{}}
	r := roundWithHand(0, nil)

	move, err := agent.Play(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !move.Pass {
		t.Fatal("empty hand should pass")
	}
}
