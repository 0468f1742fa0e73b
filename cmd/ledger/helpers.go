package ledger

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/kcal-ledger/internal/app"
	"github.com/saadjs/kcal-ledger/internal/db"
	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	logger.Printf("database %s", path)
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseEntryType(value string) (model.EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "food", "f":
		return model.TypeFood, nil
	case "exercise", "e", "ex":
		return model.TypeExercise, nil
	default:
		return "", fmt.Errorf("invalid --type %q (expected food or exercise)", value)
	}
}

// parseAdoptArg splits "name=N" into the identifier and its quantity. N is a
// count for food and minutes for exercise; 0 means use the default.
func parseAdoptArg(arg string) (string, int, error) {
	idx := strings.LastIndex(arg, "=")
	if idx < 0 {
		return strings.TrimSpace(arg), 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg[idx+1:]))
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("invalid quantity in %q (expected name=N with N > 0)", arg)
	}
	return strings.TrimSpace(arg[:idx]), n, nil
}

func selectionFor(t model.EntryType, n int) engine.Selection {
	if t == model.TypeExercise {
		return engine.Selection{Minutes: n}
	}
	return engine.Selection{Count: n}
}

func formatEntryQuantity(e model.LedgerEntry) string {
	if e.Type == model.TypeExercise {
		if e.Count > 1 {
			return fmt.Sprintf("%dm x%d", e.Minutes, e.Count)
		}
		return fmt.Sprintf("%dm", e.Minutes)
	}
	return fmt.Sprintf("x%d", e.Count)
}

func formatLastUsed(ms int64) string {
	if ms <= 0 {
		return "never"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02")
}
