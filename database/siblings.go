package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Delta is the set of join rows an update adds and removes.
type Delta struct {
	Attach []uuid.UUID
	Detach []uuid.UUID
}

func (d Delta) Empty() bool {
	return len(d.Attach) == 0 && len(d.Detach) == 0
}

// Diff computes the attach/detach sets that turn current into desired.
// Both inputs are treated as sets: order and repeats are ignored.
func Diff(current, desired []uuid.UUID) Delta {
	have := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	want := make(map[uuid.UUID]struct{}, len(desired))
	for _, id := range desired {
		want[id] = struct{}{}
	}

	var delta Delta
	for _, id := range desired {
		if _, ok := have[id]; ok {
			continue
		}
		delta.Attach = append(delta.Attach, id)
		have[id] = struct{}{}
	}
	for _, id := range current {
		if _, ok := want[id]; ok {
			continue
		}
		delta.Detach = append(delta.Detach, id)
		want[id] = struct{}{}
	}
	return delta
}

// Relation describes a many-to-many association stored in a join table.
type Relation struct {
	Name         string // association field on the owning model
	JoinTable    string
	OwnerColumn  string
	TargetColumn string
	TargetTable  string
	Target       string // entity name used in errors
}

// Current returns the ids attached to ownerID.
func (r Relation) Current(tx *gorm.DB, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Table(r.JoinTable).
		Where(clause.Eq{Column: clause.Column{Name: r.OwnerColumn}, Value: ownerID}).
		Pluck(r.TargetColumn, &ids).Error
	if err != nil {
		return nil, errs.NewDatabaseError("load", r.Name, err)
	}
	return ids, nil
}

// Sync reconciles the join rows of ownerID with desired and reports what changed.
// Unknown targets are rejected before anything is written.
func (r Relation) Sync(tx *gorm.DB, ownerID uuid.UUID, desired []uuid.UUID) (Delta, error) {
	current, err := r.Current(tx, ownerID)
	if err != nil {
		return Delta{}, err
	}

	delta := Diff(current, desired)
	if delta.Empty() {
		return delta, nil
	}

	if len(delta.Attach) > 0 {
		if err := r.ensureTargets(tx, delta.Attach); err != nil {
			return Delta{}, err
		}
		rows := make([]map[string]any, 0, len(delta.Attach))
		for _, id := range delta.Attach {
			rows = append(rows, map[string]any{r.OwnerColumn: ownerID, r.TargetColumn: id})
		}
		if err := tx.Table(r.JoinTable).Create(&rows).Error; err != nil {
			return Delta{}, errs.NewDatabaseError("attach", r.Target, err)
		}
	}

	if len(delta.Detach) > 0 {
		if err := r.detach(tx, ownerID, delta.Detach); err != nil {
			return Delta{}, err
		}
	}
	return delta, nil
}

// Clear detaches every target from ownerID.
func (r Relation) Clear(tx *gorm.DB, ownerID uuid.UUID) error {
	return r.detach(tx, ownerID, nil)
}

// ClearTarget removes every join row that points at targetID, whatever its owner.
func (r Relation) ClearTarget(tx *gorm.DB, targetID uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.JoinTable, r.TargetColumn)
	if err := tx.Exec(query, targetID).Error; err != nil {
		return errs.NewDatabaseError("detach", r.Target, err)
	}
	return nil
}

func (r Relation) detach(tx *gorm.DB, ownerID uuid.UUID, targets []uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.JoinTable, r.OwnerColumn)
	args := []any{ownerID}
	if targets != nil {
		query += fmt.Sprintf(" AND %s IN ?", r.TargetColumn)
		args = append(args, targets)
	}
	if err := tx.Exec(query, args...).Error; err != nil {
		return errs.NewDatabaseError("detach", r.Target, err)
	}
	return nil
}

func (r Relation) ensureTargets(tx *gorm.DB, ids []uuid.UUID) error {
	var found int64
	err := tx.Table(r.TargetTable).
		Where(clause.IN{Column: clause.Column{Name: "id"}, Values: toValues(ids)}).
		Count(&found).Error
	if err != nil {
		return errs.NewDatabaseError("find", r.Target, err)
	}
	if found != int64(len(ids)) {
		return errs.NewUnprocessableEntityErrorWithField(fmt.Sprintf("unknown %s", r.Target), r.Name)
	}
	return nil
}

func toValues(ids []uuid.UUID) []any {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}
