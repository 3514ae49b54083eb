package tripdata

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"roadtrip/db"
	"roadtrip/models"
)

// Canonical itinerary columns, in export order.
const (
	ColDate      = "date"
	ColStartTime = "start_time"
	ColEndTime   = "end_time"
	ColActivity  = "activity"
	ColMemo      = "memo"

	legacyColTime = "time"
)

var ItineraryColumns = []string{ColDate, ColStartTime, ColEndTime, ColActivity, ColMemo}

// Column names written by the first version of the planner.
var koreanColumns = map[string]string{
	"날짜":      ColDate,
	"시간":      legacyColTime,
	"시작시간":    ColStartTime,
	"종료시간":    ColEndTime,
	"장소 및 활동": ColActivity,
	"메모":      ColMemo,
}

const legacyActualDescription = "legacy actual spend"

// UpgradeItineraryRow brings one stored row to the current five-column shape.
// It never mutates row and is idempotent.
func UpgradeItineraryRow(row map[string]any) map[string]any {
	// Original column names first so that current names win when both exist.
	named := make(map[string]any, len(row))
	for k, v := range row {
		if canonical, ok := koreanColumns[k]; ok {
			named[canonical] = v
		}
	}
	for k, v := range row {
		if _, ok := koreanColumns[k]; !ok {
			named[k] = v
		}
	}

	if _, ok := named[ColStartTime]; !ok {
		if t, ok := named[legacyColTime]; ok {
			named[ColStartTime] = t
		}
	}

	out := make(map[string]any, len(ItineraryColumns))
	for _, col := range ItineraryColumns {
		out[col] = cellString(named[col])
	}
	return out
}

// MigrateItinerary decodes a stored itinerary document into rows.
func MigrateItinerary(doc db.Document) []models.ItineraryRow {
	rows := []models.ItineraryRow{}
	for _, raw := range listOf(doc) {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		up := UpgradeItineraryRow(m)
		rows = append(rows, models.ItineraryRow{
			Date:      up[ColDate].(string),
			StartTime: up[ColStartTime].(string),
			EndTime:   up[ColEndTime].(string),
			Activity:  up[ColActivity].(string),
			Memo:      up[ColMemo].(string),
		})
	}
	return rows
}

// MigrateBudget decodes a stored budget document. Documents without an expenses
// list use the legacy {category: {planned, actual}} shape; their actual spend is
// carried over as one expense per category rather than dropped.
func MigrateBudget(doc db.Document) models.Budget {
	b := models.Budget{Planned: map[string]float64{}, Expenses: []models.Expense{}}

	if rawExpenses, ok := doc["expenses"].([]any); ok {
		if planned, ok := doc["planned"].(map[string]any); ok {
			for cat, v := range planned {
				if amount, ok := toFloat(v); ok {
					b.Planned[cat] = amount
				}
			}
		}
		for _, raw := range rawExpenses {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			amount, _ := toFloat(m["amount"])
			b.Expenses = append(b.Expenses, models.Expense{
				Date:        cellString(m["date"]),
				Category:    cellString(m["category"]),
				Person:      cellString(m["person"]),
				Amount:      amount,
				Description: cellString(m["description"]),
			})
		}
	} else {
		for cat, raw := range doc {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if planned, ok := toFloat(entry["planned"]); ok {
				b.Planned[cat] = planned
			}
			if actual, ok := toFloat(entry["actual"]); ok && actual > 0 {
				slog.Warn("Converting legacy budget actual into an expense", "category", cat, "amount", actual)
				b.Expenses = append(b.Expenses, models.Expense{
					Category:    cat,
					Amount:      actual,
					Description: legacyActualDescription,
				})
			}
		}
		sortExpensesByCategory(b.Expenses)
	}

	for _, cat := range models.BudgetCategories {
		if _, ok := b.Planned[cat]; !ok {
			b.Planned[cat] = 0
		}
	}
	return b
}

// MigrateChecklist decodes a stored checklist document into one list per
// member. When the per-member keys are not all present the document is the
// old shared list, copied to every member without a list of their own.
func MigrateChecklist(doc db.Document, members []string) models.Checklists {
	out := make(models.Checklists, len(members))

	allPresent := len(members) > 0
	for _, m := range members {
		if _, ok := doc[m].([]any); !ok {
			allPresent = false
		}
	}
	if allPresent {
		for _, m := range members {
			out[m] = decodeChecklist(doc[m].([]any))
		}
		return out
	}

	var shared []models.ChecklistItem
	if legacy, ok := doc["list"].([]any); ok {
		shared = decodeChecklist(legacy)
	} else {
		shared = models.DefaultChecklist()
	}
	for _, m := range members {
		if own, ok := doc[m].([]any); ok {
			out[m] = decodeChecklist(own)
			continue
		}
		out[m] = append([]models.ChecklistItem(nil), shared...)
	}
	return out
}

func decodeChecklist(raw []any) []models.ChecklistItem {
	items := make([]models.ChecklistItem, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		checked, _ := m["checked"].(bool)
		items = append(items, models.ChecklistItem{
			Category: cellString(m["category"]),
			Name:     cellString(m["name"]),
			Checked:  checked,
		})
	}
	return items
}

func listOf(doc db.Document) []any {
	list, _ := doc["list"].([]any)
	return list
}

// cellString renders a stored scalar as text. Missing values and NaN (written by
// the dataframe-backed first version for empty cells) become "".
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t != t {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, t == t
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", ""), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func sortExpensesByCategory(es []models.Expense) {
	rank := make(map[string]int, len(models.BudgetCategories))
	for i, c := range models.BudgetCategories {
		rank[c] = i + 1
	}
	sort.SliceStable(es, func(i, j int) bool {
		ri, rj := rank[es[i].Category], rank[es[j].Category]
		if ri == 0 {
			ri = len(rank) + 1
		}
		if rj == 0 {
			rj = len(rank) + 1
		}
		if ri != rj {
			return ri < rj
		}
		return es[i].Category < es[j].Category
	})
}
