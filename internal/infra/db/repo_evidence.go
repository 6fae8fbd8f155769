package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EvidenceRepository struct {
	db *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Append links the record into the case chain. The per-case seq row is held
// FOR UPDATE for the duration of the transaction, so concurrent appends on
// the same case serialize; the record's PreviousHash is re-validated against
// the current head under that lock and a stale link is rejected with
// domain.ErrChainConflict.
func (r *EvidenceRepository) Append(ctx context.Context, rec domain.EvidenceRecord, initial domain.CustodyEntry) (domain.EvidenceRecord, error) {
	if r.db == nil {
		return domain.EvidenceRecord{}, errDBUnavailable
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	var out domain.EvidenceRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, headHash, err := nextChainSeq(ctx, tx, rec.CaseID)
		if err != nil {
			return err
		}
		if rec.PreviousHash != headHash {
			return domain.ErrChainConflict
		}
		rec.ChainIndex = seq

		model := evidenceModelFromDomain(rec)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		initial.EntryIndex = 1
		entryModel, err := custodyModelFromDomain(rec.ID, initial)
		if err != nil {
			return err
		}
		if err := tx.Create(&entryModel).Error; err != nil {
			return err
		}

		rec.CustodyLog = []domain.CustodyEntry{initial}
		out = rec
		return nil
	})
	if err != nil {
		return domain.EvidenceRecord{}, err
	}
	return out, nil
}

func (r *EvidenceRepository) Get(ctx context.Context, firmID, evidenceID string) (domain.EvidenceRecord, error) {
	if r.db == nil {
		return domain.EvidenceRecord{}, errDBUnavailable
	}
	var model EvidenceModel
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, evidenceID).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.EvidenceRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.EvidenceRecord{}, err
	}
	rec := evidenceFromModel(model)
	log, err := r.custodyLog(ctx, evidenceID)
	if err != nil {
		return domain.EvidenceRecord{}, err
	}
	rec.CustodyLog = log
	return rec, nil
}

func (r *EvidenceRepository) ListByCase(ctx context.Context, firmID, caseID string) ([]domain.EvidenceRecord, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []EvidenceModel
	if err := r.db.WithContext(ctx).
		Where("firm_id = ? AND case_id = ?", firmID, caseID).
		Order("chain_index ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.EvidenceRecord, 0, len(models))
	for _, model := range models {
		rec := evidenceFromModel(model)
		log, err := r.custodyLog(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		rec.CustodyLog = log
		out = append(out, rec)
	}
	return out, nil
}

func (r *EvidenceRepository) Head(ctx context.Context, firmID, caseID string) (domain.EvidenceRecord, error) {
	if r.db == nil {
		return domain.EvidenceRecord{}, errDBUnavailable
	}
	var model EvidenceModel
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND case_id = ?", firmID, caseID).
		Order("chain_index DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.EvidenceRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.EvidenceRecord{}, err
	}
	return evidenceFromModel(model), nil
}

// AppendCustody locks the evidence row, allocates the next entry index, and
// inserts. Concurrent appends on the same record serialize on the row lock;
// nothing is ever rewritten in place.
func (r *EvidenceRepository) AppendCustody(ctx context.Context, firmID, evidenceID string, entry domain.CustodyEntry) (domain.EvidenceRecord, error) {
	if r.db == nil {
		return domain.EvidenceRecord{}, errDBUnavailable
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model EvidenceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("firm_id = ? AND id = ?", firmID, evidenceID).
			Take(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		var lastIndex int64
		if err := tx.Model(&CustodyLogModel{}).
			Where("evidence_id = ?", evidenceID).
			Select("COALESCE(MAX(entry_index), 0)").
			Scan(&lastIndex).Error; err != nil {
			return err
		}
		entry.EntryIndex = lastIndex + 1

		entryModel, err := custodyModelFromDomain(evidenceID, entry)
		if err != nil {
			return err
		}
		return tx.Create(&entryModel).Error
	})
	if err != nil {
		return domain.EvidenceRecord{}, err
	}
	return r.Get(ctx, firmID, evidenceID)
}

func (r *EvidenceRepository) UpdateStatus(ctx context.Context, firmID, evidenceID string, status domain.EvidenceStatus) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).
		Model(&EvidenceModel{}).
		Where("firm_id = ? AND id = ?", firmID, evidenceID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EvidenceRepository) custodyLog(ctx context.Context, evidenceID string) ([]domain.CustodyEntry, error) {
	var models []CustodyLogModel
	if err := r.db.WithContext(ctx).
		Where("evidence_id = ?", evidenceID).
		Order("entry_index ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CustodyEntry, 0, len(models))
	for _, model := range models {
		out = append(out, custodyFromModel(model))
	}
	return out, nil
}

// nextChainSeq allocates the next chain index for the case under a row lock
// and returns the current head's content hash (GenesisHash for an empty
// case).
func nextChainSeq(ctx context.Context, tx *gorm.DB, caseID string) (int64, string, error) {
	if caseID == "" {
		return 0, "", errors.New("case_id is required")
	}
	if err := tx.WithContext(ctx).Exec(
		"INSERT INTO case_chain_seq (case_id, seq) VALUES (?, 0) ON CONFLICT (case_id) DO NOTHING",
		caseID,
	).Error; err != nil {
		return 0, "", err
	}

	var currentSeq int64
	if err := tx.WithContext(ctx).Raw(
		"SELECT seq FROM case_chain_seq WHERE case_id = ? FOR UPDATE",
		caseID,
	).Scan(&currentSeq).Error; err != nil {
		return 0, "", err
	}
	nextSeq := currentSeq + 1
	if err := tx.WithContext(ctx).Exec(
		"UPDATE case_chain_seq SET seq = ? WHERE case_id = ?",
		nextSeq,
		caseID,
	).Error; err != nil {
		return 0, "", err
	}

	headHash := domain.GenesisHash
	if currentSeq > 0 {
		var head EvidenceModel
		if err := tx.WithContext(ctx).
			Where("case_id = ? AND chain_index = ?", caseID, currentSeq).
			Take(&head).Error; err != nil {
			return 0, "", err
		}
		headHash = head.ContentHash
	}
	if headHash == "" {
		return 0, "", fmt.Errorf("missing head content hash for case %s", caseID)
	}
	return nextSeq, headHash, nil
}

func evidenceModelFromDomain(rec domain.EvidenceRecord) EvidenceModel {
	return EvidenceModel{
		ID:           rec.ID,
		FirmID:       rec.FirmID,
		CaseID:       rec.CaseID,
		ChainIndex:   rec.ChainIndex,
		Title:        rec.Title,
		Type:         rec.Type,
		Source:       rec.Source,
		CollectedAt:  rec.CollectedAt,
		ContentHash:  rec.ContentHash,
		PreviousHash: rec.PreviousHash,
		StoragePath:  rec.StoragePath,
		Status:       string(rec.Status),
		CreatedAt:    rec.CreatedAt,
	}
}

func evidenceFromModel(model EvidenceModel) domain.EvidenceRecord {
	return domain.EvidenceRecord{
		ID:           model.ID,
		FirmID:       model.FirmID,
		CaseID:       model.CaseID,
		ChainIndex:   model.ChainIndex,
		Title:        model.Title,
		Type:         model.Type,
		Source:       model.Source,
		CollectedAt:  model.CollectedAt,
		ContentHash:  model.ContentHash,
		PreviousHash: model.PreviousHash,
		StoragePath:  model.StoragePath,
		Status:       domain.EvidenceStatus(model.Status),
		CreatedAt:    model.CreatedAt,
	}
}

func custodyModelFromDomain(evidenceID string, entry domain.CustodyEntry) (CustodyLogModel, error) {
	details, err := toJSON(entry.Details)
	if err != nil {
		return CustodyLogModel{}, err
	}
	return CustodyLogModel{
		ID:           newID(),
		EvidenceID:   evidenceID,
		EntryIndex:   entry.EntryIndex,
		Action:       string(entry.Action),
		Actor:        entry.Actor,
		Hash:         stringPtrIfNotEmpty(entry.Hash),
		PreviousHash: stringPtrIfNotEmpty(entry.PreviousHash),
		Details:      details,
		Timestamp:    entry.Timestamp,
	}, nil
}

func custodyFromModel(model CustodyLogModel) domain.CustodyEntry {
	return domain.CustodyEntry{
		EntryIndex:   model.EntryIndex,
		Action:       domain.CustodyAction(model.Action),
		Timestamp:    model.Timestamp,
		Actor:        model.Actor,
		Hash:         stringValue(model.Hash),
		PreviousHash: stringValue(model.PreviousHash),
		Details:      fromJSONMap(model.Details),
	}
}
