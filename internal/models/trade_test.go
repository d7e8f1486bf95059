package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestTrade() (*Trade, uuid.UUID, uuid.UUID) {
	sender := uuid.New()
	receiver := uuid.New()
	t := &Trade{
		ID:              uuid.New(),
		SenderID:        sender,
		ReceiverID:      receiver,
		SenderItemIDs:   []uuid.UUID{uuid.New()},
		ReceiverItemIDs: []uuid.UUID{uuid.New(), uuid.New()},
		Status:          TradePending,
	}
	return t, sender, receiver
}

func TestCanTransition(t *testing.T) {
	all := []TradeStatus{TradePending, TradeAccepted, TradeDeclined, TradeCompleted, TradeCancelled}
	legal := map[TradeStatus][]TradeStatus{
		TradePending:  {TradeAccepted, TradeDeclined, TradeCancelled},
		TradeAccepted: {TradeCompleted, TradeCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range legal[from] {
				if next == to {
					want = true
				}
			}
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	if TradePending.Terminal() || TradeAccepted.Terminal() {
		t.Error("PENDING and ACCEPTED must not be terminal")
	}
	for _, s := range []TradeStatus{TradeDeclined, TradeCompleted, TradeCancelled} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestAcceptOnlyReceiver(t *testing.T) {
	tr, sender, receiver := newTestTrade()

	if err := tr.Accept(uuid.New()); !errors.Is(err, ErrNotParty) {
		t.Fatalf("stranger accept: got %v, want ErrNotParty", err)
	}
	if err := tr.Accept(sender); !errors.Is(err, ErrNotReceiver) {
		t.Fatalf("sender accept: got %v, want ErrNotReceiver", err)
	}
	if err := tr.Accept(receiver); err != nil {
		t.Fatalf("receiver accept: %v", err)
	}
	if tr.Status != TradeAccepted {
		t.Fatalf("status after accept = %s, want ACCEPTED", tr.Status)
	}
	if err := tr.Accept(receiver); !errors.Is(err, ErrTradeNotPending) {
		t.Fatalf("double accept: got %v, want ErrTradeNotPending", err)
	}
}

func TestDeclineOnlyReceiverAndOnlyPending(t *testing.T) {
	tr, sender, receiver := newTestTrade()

	if err := tr.Decline(sender); !errors.Is(err, ErrNotReceiver) {
		t.Fatalf("sender decline: got %v, want ErrNotReceiver", err)
	}
	if err := tr.Decline(receiver); err != nil {
		t.Fatalf("receiver decline: %v", err)
	}
	if tr.Status != TradeDeclined {
		t.Fatalf("status after decline = %s, want DECLINED", tr.Status)
	}
	if err := tr.Decline(receiver); !errors.Is(err, ErrTradeNotPending) {
		t.Fatalf("decline after decline: got %v, want ErrTradeNotPending", err)
	}
}

func TestConfirmRequiresAccepted(t *testing.T) {
	tr, sender, _ := newTestTrade()

	if _, err := tr.Confirm(sender); !errors.Is(err, ErrTradeNotAccepted) {
		t.Fatalf("confirm while pending: got %v, want ErrTradeNotAccepted", err)
	}
}

func TestConfirmBothParties(t *testing.T) {
	tr, sender, receiver := newTestTrade()
	if err := tr.Accept(receiver); err != nil {
		t.Fatalf("accept: %v", err)
	}

	done, err := tr.Confirm(sender)
	if err != nil {
		t.Fatalf("sender confirm: %v", err)
	}
	if done {
		t.Fatal("one confirmation must not complete the trade")
	}
	if _, err := tr.Confirm(sender); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("repeat confirm: got %v, want ErrAlreadyConfirmed", err)
	}

	done, err = tr.Confirm(receiver)
	if err != nil {
		t.Fatalf("receiver confirm: %v", err)
	}
	if !done {
		t.Fatal("second confirmation must complete the trade")
	}
}

func TestCancelEitherPartyUntilFinished(t *testing.T) {
	tr, sender, _ := newTestTrade()
	if err := tr.Cancel(uuid.New()); !errors.Is(err, ErrNotParty) {
		t.Fatalf("stranger cancel: got %v, want ErrNotParty", err)
	}
	if err := tr.Cancel(sender); err != nil {
		t.Fatalf("sender cancel while pending: %v", err)
	}
	if tr.Status != TradeCancelled {
		t.Fatalf("status after cancel = %s, want CANCELLED", tr.Status)
	}

	tr2, _, receiver2 := newTestTrade()
	if err := tr2.Accept(receiver2); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := tr2.Cancel(receiver2); err != nil {
		t.Fatalf("receiver cancel while accepted: %v", err)
	}

	if err := tr2.Cancel(receiver2); !errors.Is(err, ErrTradeFinished) {
		t.Fatalf("cancel after cancel: got %v, want ErrTradeFinished", err)
	}
}

func TestOtherPartyAndItemIDs(t *testing.T) {
	tr, sender, receiver := newTestTrade()
	if tr.OtherParty(sender) != receiver {
		t.Error("OtherParty(sender) must be receiver")
	}
	if tr.OtherParty(receiver) != sender {
		t.Error("OtherParty(receiver) must be sender")
	}
	if got := len(tr.ItemIDs()); got != 3 {
		t.Errorf("ItemIDs length = %d, want 3", got)
	}
}
