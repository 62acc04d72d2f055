package domain

import (
	"errors"
	"testing"
)

func mkInstance(id string) *CardInstance {
	return &CardInstance{
		InstanceID: id,
		Def:        mkTask(id, 1, TaskSpec{DeadlineTurns: 2, RequiredHours: 3, RewardPoints: 1, PenaltyPoints: 1}),
	}
}

func TestHandCapacity(t *testing.T) {
	p := &PlayerState{}
	for i := 0; i < 3; i++ {
		if err := p.AddToHand(mkInstance(string(rune('a'+i))), 3); err != nil {
			t.Fatalf("AddToHand(%d) error = %v", i, err)
		}
	}
	if err := p.AddToHand(mkInstance("d"), 3); !errors.Is(err, ErrHandFull) {
		t.Fatalf("AddToHand over capacity error = %v, want ErrHandFull", err)
	}
	if len(p.Hand) != 3 {
		t.Fatalf("hand size = %d, want 3", len(p.Hand))
	}

	// Zero capacity means unlimited.
	q := &PlayerState{}
	for i := 0; i < 50; i++ {
		if err := q.AddToHand(mkInstance("x"), 0); err != nil {
			t.Fatalf("AddToHand with no cap error = %v", err)
		}
	}
}

func TestHandRemove(t *testing.T) {
	p := &PlayerState{}
	c := mkInstance("a")
	if err := p.AddToHand(c, 0); err != nil {
		t.Fatal(err)
	}

	got, err := p.RemoveFromHand("a")
	if err != nil || got != c {
		t.Fatalf("RemoveFromHand = %v, %v", got, err)
	}
	if len(p.Hand) != 0 {
		t.Fatalf("hand size after remove = %d, want 0", len(p.Hand))
	}

	if _, err := p.RemoveFromHand("a"); !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("RemoveFromHand(absent) error = %v, want ErrCardNotInHand", err)
	}
}

func TestTableCapacity(t *testing.T) {
	p := &PlayerState{}
	for i := 0; i < 2; i++ {
		task := NewActiveTask(mkInstance(string(rune('a' + i))))
		if err := p.AddTask(task, 2); err != nil {
			t.Fatalf("AddTask(%d) error = %v", i, err)
		}
	}
	if err := p.AddTask(NewActiveTask(mkInstance("c")), 2); !errors.Is(err, ErrTableFull) {
		t.Fatalf("AddTask over capacity error = %v, want ErrTableFull", err)
	}

	if _, ok := p.TaskByID("a"); !ok {
		t.Fatal("TaskByID(a) not found")
	}
	p.RemoveTask("a")
	if _, ok := p.TaskByID("a"); ok {
		t.Fatal("TaskByID(a) still present after RemoveTask")
	}
	if len(p.Table) != 1 {
		t.Fatalf("table size = %d, want 1", len(p.Table))
	}
}

func TestClockRemaining(t *testing.T) {
	p := &PlayerState{ClockCapacity: 8, ClockSpent: 3}
	if got := p.ClockRemaining(); got != 5 {
		t.Fatalf("ClockRemaining() = %d, want 5", got)
	}

	// Capacity shrinking below spent clamps at zero rather than going negative.
	p.ClockCapacity = 2
	if got := p.ClockRemaining(); got != 0 {
		t.Fatalf("ClockRemaining() = %d, want 0", got)
	}
}

func TestCardsTotal(t *testing.T) {
	cat := mustCatalog(t, mkTask("a", 3, TaskSpec{DeadlineTurns: 1, RequiredHours: 1}))
	p := &PlayerState{Deck: NewDeck(cat, 0)}
	p.Hand = append(p.Hand, p.Deck.Draw(1)...)
	if got := p.CardsTotal(); got != 3 {
		t.Fatalf("CardsTotal() = %d, want 3", got)
	}

	card, _ := p.RemoveFromHand(p.Hand[0].InstanceID)
	if err := p.AddTask(NewActiveTask(card), 0); err != nil {
		t.Fatal(err)
	}
	if got := p.CardsTotal(); got != 3 {
		t.Fatalf("CardsTotal() after play = %d, want 3", got)
	}
}
