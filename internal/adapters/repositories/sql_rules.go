package repositories

import (
	"context"
	"database/sql"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/db"
	"dispatch-compliance-service/internal/rules"
	"encoding/json"
	"errors"
	"fmt"
)

// SeedRules replaces the stored rule table with seeds in one transaction.
// Seeds are validated before anything is written.
func SeedRules(ctx context.Context, conn *sql.DB, dialect db.Dialect, seeds []rules.JurisdictionSeed) error {
	if conn == nil {
		return errors.New("seed rules: DB is nil")
	}

	table, advisories, err := rules.FromSeeds(seeds)
	if err != nil {
		return fmt.Errorf("seed rules: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed rules: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{"DELETE FROM jurisdiction_advisories;", "DELETE FROM jurisdiction_rules;"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("seed rules: clear: %w", err)
		}
	}

	ruleStmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO jurisdiction_rules (code, max_gvw_lbs, min_bridge_ft, hazmat_restrictions)
	VALUES (?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("seed rules: prepare rule insert: %w", err)
	}
	defer ruleStmt.Close()

	advStmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO jurisdiction_advisories (code, position, advisory)
	VALUES (?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("seed rules: prepare advisory insert: %w", err)
	}
	defer advStmt.Close()

	for _, r := range table.Rules() {
		tags := r.HazmatRestrictions
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("seed rules: encode tags for %s: %w", r.Code, err)
		}
		if _, err := ruleStmt.ExecContext(ctx, r.Code, r.MaxGrossWeightLbs, r.MinBridgeClearanceFt, string(tagsJSON)); err != nil {
			return fmt.Errorf("seed rules: insert %s: %w", r.Code, err)
		}
		for i, a := range advisories.For(r.Code) {
			if _, err := advStmt.ExecContext(ctx, r.Code, i, a); err != nil {
				return fmt.Errorf("seed rules: insert advisory %s#%d: %w", r.Code, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed rules: commit tx: %w", err)
	}

	return nil
}

// SeedRulesFromJSON loads a JSON rule file and stores it.
func SeedRulesFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, path string) error {
	table, advisories, err := rules.LoadJSONFile(path)
	if err != nil {
		return fmt.Errorf("seed rules: %w", err)
	}
	return SeedRules(ctx, conn, dialect, rules.Seeds(table, advisories))
}

// LoadRuleTable reads and validates the stored rule table.
// Advisories for codes without a rule are kept; they are only reached if a rule is added later.
func LoadRuleTable(ctx context.Context, conn *sql.DB) (*domain.RuleTable, domain.AdvisoryTable, error) {
	if conn == nil {
		return nil, nil, errors.New("load rule table: DB is nil")
	}

	rows, err := conn.QueryContext(ctx, `
	SELECT code, max_gvw_lbs, min_bridge_ft, hazmat_restrictions
	FROM jurisdiction_rules
	ORDER BY code;
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load rule table: query jurisdiction_rules: %w", err)
	}
	defer rows.Close()

	var list []domain.JurisdictionRule
	for rows.Next() {
		var r domain.JurisdictionRule
		var tagsJSON string
		if err := rows.Scan(&r.Code, &r.MaxGrossWeightLbs, &r.MinBridgeClearanceFt, &tagsJSON); err != nil {
			return nil, nil, fmt.Errorf("load rule table: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &r.HazmatRestrictions); err != nil {
			return nil, nil, fmt.Errorf("load rule table: decode tags for %s: %w", r.Code, err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load rule table: row iteration: %w", err)
	}

	table, err := domain.NewRuleTable(list)
	if err != nil {
		return nil, nil, fmt.Errorf("load rule table: %w", err)
	}

	advRows, err := conn.QueryContext(ctx, `
	SELECT code, advisory
	FROM jurisdiction_advisories
	ORDER BY code, position;
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load rule table: query jurisdiction_advisories: %w", err)
	}
	defer advRows.Close()

	advisories := domain.AdvisoryTable{}
	for advRows.Next() {
		var code, text string
		if err := advRows.Scan(&code, &text); err != nil {
			return nil, nil, fmt.Errorf("load rule table: scan advisory: %w", err)
		}
		advisories[code] = append(advisories[code], text)
	}
	if err := advRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load rule table: advisory iteration: %w", err)
	}

	return table, advisories, nil
}
