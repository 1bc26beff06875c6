package calculator

import (
	"testing"

	"github.com/splitbasket/splitbasket/internal/money"
)

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        money.Amount
		participants int
		wantErr      bool
		wantShares   []int64 // cents
	}{
		{
			name:         "even four-way split",
			total:        money.FromCents(10000),
			participants: 4,
			wantShares:   []int64{2500, 2500, 2500, 2500},
		},
		{
			name:         "remainder cents distributed from the front",
			total:        money.FromCents(10000),
			participants: 3,
			wantShares:   []int64{3334, 3333, 3333},
		},
		{
			name:         "single participant keeps the total",
			total:        money.FromCents(38950),
			participants: 1,
			wantShares:   []int64{38950},
		},
		{
			name:         "zero participants rejected",
			total:        money.FromCents(10000),
			participants: 0,
			wantErr:      true,
		},
		{
			name:         "negative total rejected",
			total:        money.FromCents(-100),
			participants: 2,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualSplit(tt.total, tt.participants)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("EqualSplit failed: %v", err)
			}
			if len(shares) != len(tt.wantShares) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.wantShares))
			}
			var sum money.Amount
			for i, share := range shares {
				if share.Cents() != tt.wantShares[i] {
					t.Errorf("share %d = %d cents, want %d", i, share.Cents(), tt.wantShares[i])
				}
				sum += share
			}
			if sum != tt.total {
				t.Errorf("shares sum to %s, want %s", sum, tt.total)
			}
		})
	}
}

func TestCustomSplit(t *testing.T) {
	tests := []struct {
		name      string
		amounts   []int64 // cents
		wantTotal int64
		wantErr   bool
	}{
		{
			name:      "total derived from amounts",
			amounts:   []int64{3000, 4500, 2500},
			wantTotal: 10000,
		},
		{
			name:    "zero amount rejects the entry",
			amounts: []int64{3000, 0, 2500},
			wantErr: true,
		},
		{
			name:    "negative amount rejects the entry",
			amounts: []int64{3000, -100},
			wantErr: true,
		},
		{
			name:    "no participants rejected",
			amounts: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := make([]money.Amount, len(tt.amounts))
			for i, c := range tt.amounts {
				amounts[i] = money.FromCents(c)
			}
			total, err := CustomSplit(amounts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("CustomSplit failed: %v", err)
			}
			if total.Cents() != tt.wantTotal {
				t.Errorf("total = %d cents, want %d", total.Cents(), tt.wantTotal)
			}
		})
	}
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name         string
		total        int64 // cents
		participants int
		want         int64
	}{
		{name: "even division", total: 12000, participants: 4, want: 3000},
		{name: "truncates to whole cents", total: 38950, participants: 4, want: 9737},
		{name: "single participant", total: 5000, participants: 1, want: 5000},
		{name: "zero participants yields zero", total: 5000, participants: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Average(money.FromCents(tt.total), tt.participants)
			if got.Cents() != tt.want {
				t.Errorf("Average(%d, %d) = %d cents, want %d", tt.total, tt.participants, got.Cents(), tt.want)
			}
		})
	}
}

func TestAverageAmount(t *testing.T) {
	tests := []struct {
		name         string
		display      string
		participants int
		want         int64 // cents
	}{
		{name: "dollar glyph stripped", display: "$ 128.30", participants: 4, want: 3207},
		{name: "yen glyph stripped", display: "¥100.00", participants: 2, want: 5000},
		{name: "plain decimal", display: "100.00", participants: 4, want: 2500},
		{name: "zero participants yields zero", display: "$ 50.00", participants: 0, want: 0},
		{name: "unparsable yields zero", display: "not a number", participants: 3, want: 0},
		{name: "empty yields zero", display: "", participants: 3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageAmount(tt.display, tt.participants)
			if got.Cents() != tt.want {
				t.Errorf("AverageAmount(%q, %d) = %d cents, want %d", tt.display, tt.participants, got.Cents(), tt.want)
			}
		})
	}
}
