package usecase

import (
	"context"
	"testing"
)

func TestSweepExpiredOtpCodesBatches(t *testing.T) {
	fx := newFixture(t)

	ids := make([]int64, 1200)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	fx.db.listExpiredIDs = ids

	if err := fx.uc.SweepExpiredOtpCodes(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if len(fx.db.deletedIDs) != 3 {
		t.Fatalf("expected 3 batches of 500, got %d", len(fx.db.deletedIDs))
	}
	if len(fx.db.deletedIDs[0]) != 500 || len(fx.db.deletedIDs[2]) != 200 {
		t.Fatalf("unexpected batch sizes %d and %d", len(fx.db.deletedIDs[0]), len(fx.db.deletedIDs[2]))
	}
}

func TestSweepExpiredOtpCodesNothingToDo(t *testing.T) {
	fx := newFixture(t)

	if err := fx.uc.SweepExpiredOtpCodes(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(fx.db.deletedIDs) != 0 {
		t.Fatal("no deletes expected when nothing is expired")
	}
}

func TestSweepExpiredOtpCodesRetriesDeletes(t *testing.T) {
	fx := newFixture(t)
	fx.db.listExpiredIDs = []int64{1, 2, 3}
	fx.db.deleteByIDsErr = errBoom

	if err := fx.uc.SweepExpiredOtpCodes(context.Background()); err == nil {
		t.Fatal("expected error once delete retries are exhausted")
	}
}
