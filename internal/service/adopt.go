package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

// AdoptSelection is one template chosen for adoption. Items with ID 0 are
// history templates and leave library counters alone.
type AdoptSelection struct {
	Item model.LibraryItem
	engine.Selection
}

// AdoptItems appends one entry per selection to date in a single
// transaction. Library-backed selections bump usage_count and last_used.
// An empty selection list writes nothing.
func AdoptItems(db *sql.DB, date string, selections []AdoptSelection, now time.Time) ([]int64, error) {
	if len(selections) == 0 {
		return nil, nil
	}
	date, err := validateDate(date)
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin adopt tx: %w", err)
	}
	ids := make([]int64, 0, len(selections))
	for _, sel := range selections {
		e := engine.Adopt(sel.Item, sel.Selection, date)
		id, err := insertEntry(tx, EntryInput{
			Date:        e.Date,
			Type:        e.Type,
			Name:        e.Name,
			Calories:    e.Calories,
			Minutes:     e.Minutes,
			Count:       e.Count,
			Description: e.Description,
			LibraryID:   e.LibraryID,
		})
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("adopt %q: %w", sel.Item.Name, err)
		}
		ids = append(ids, id)

		if sel.Item.ID <= 0 {
			continue
		}
		res, err := tx.Exec(`
UPDATE library_items
SET usage_count = usage_count + 1, last_used = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, now.UnixMilli(), sel.Item.ID)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("update library usage for %d: %w", sel.Item.ID, err)
		}
		if err := checkAffected(res, fmt.Sprintf("library item %d", sel.Item.ID)); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit adopt tx: %w", err)
	}
	return ids, nil
}

type HistoryOptions struct {
	ScanLimit int
	FeedLimit int
}

// HistoryFeed lists past entries as adoptable templates for currentDate,
// newest first and one per distinct name.
func HistoryFeed(db *sql.DB, currentDate string, opts HistoryOptions) ([]engine.HistoryItem, error) {
	currentDate, err := validateDate(currentDate)
	if err != nil {
		return nil, err
	}
	if opts.ScanLimit <= 0 {
		opts.ScanLimit = engine.HistoryScanLimit
	}
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = engine.HistoryFeedLimit
	}
	rows, err := ListHistoryRows(db, currentDate, opts.ScanLimit)
	if err != nil {
		return nil, err
	}
	return engine.HistoryFeed(rows, currentDate, opts.FeedLimit), nil
}

type HistorySelection struct {
	Item engine.HistoryItem
	engine.Selection
}

// AdoptHistory adopts history templates onto date. No library record is
// created or touched.
func AdoptHistory(db *sql.DB, date string, selections []HistorySelection, now time.Time) ([]int64, error) {
	adopt := make([]AdoptSelection, 0, len(selections))
	for _, sel := range selections {
		item := sel.Item.LibraryItem
		item.ID = 0
		adopt = append(adopt, AdoptSelection{Item: item, Selection: sel.Selection})
	}
	return AdoptItems(db, date, adopt, now)
}
