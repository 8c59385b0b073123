// Package services holds the operation orchestrators. Each operation
// validates its input, asks the authorization engine for a decision, and
// only then touches storage, inside a single transaction that re-reads the
// target and re-checks invariants against fresh state before writing.
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/epicevents/crm/internal/apperr"
	"github.com/epicevents/crm/internal/authz"
)

// denyError maps an engine denial to the error taxonomy. ContractNotSigned
// and InvalidAssigneeDepartment carry their own kinds; every other reason is
// a PermissionError with the reason code attached.
func denyError(d authz.Decision, action authz.Action) error {
	switch d.Reason {
	case authz.ReasonContractNotSigned:
		return apperr.New(apperr.KindContractNotSigned, "contract must be signed first")
	case authz.ReasonInvalidAssigneeDepartment:
		return apperr.New(apperr.KindInvalidAssigneeDepartment, "assignee is in the wrong department")
	default:
		return apperr.Permission(string(d.Reason), fmt.Sprintf("not allowed to %s", action))
	}
}

// storeError classifies a gorm error: record-not-found keeps its own kind,
// anything else is a PersistenceError wrapping the cause. Application errors
// produced inside a transaction callback pass through unchanged.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, "record not found")
	}
	return apperr.Persistence(err)
}
