package models

import (
	"testing"
	"time"
)

func TestTransferStatusTerminal(t *testing.T) {
	if TransferStatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	for _, status := range []TransferStatus{TransferStatusCompleted, TransferStatusCancelled, TransferStatusExpired} {
		if !status.Terminal() {
			t.Errorf("%s must be terminal", status)
		}
	}
}

func TestTransferExpiredAt(t *testing.T) {
	deadline := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	transfer := OwnershipTransfer{ExpiresOn: deadline, Status: TransferStatusPending}

	if transfer.ExpiredAt(deadline.Add(-time.Second)) {
		t.Error("not yet expired before the deadline")
	}
	if transfer.ExpiredAt(deadline) {
		t.Error("the deadline instant itself is still valid")
	}
	// Expiry holds even though the stored status still reads pending
	if !transfer.ExpiredAt(deadline.Add(time.Second)) {
		t.Error("expired after the deadline regardless of stored status")
	}
}
