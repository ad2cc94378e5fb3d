package repository

import (
	"context"
	"database/sql"
	"fmt"

	"mineq-data/internal/domain"
)

// PostgresEquipmentRepo 设备仓库 postgres 实现
type PostgresEquipmentRepo struct {
	db *sql.DB
}

func NewPostgresEquipmentRepo(db *sql.DB) *PostgresEquipmentRepo {
	return &PostgresEquipmentRepo{db: db}
}

var _ EquipmentRepo = (*PostgresEquipmentRepo)(nil)

const equipmentColumns = `id, name, model, serial_number, status, category, is_special,
	team, manufacturer, production_date, commission_date,
	next_inspection_date, last_inspection_date, inspection_cycle, inspector, special_license,
	notes, motor_model, power_rating, ma_ex_code, reducer_model, location, "usage"`

func scanEquipment(row interface{ Scan(...any) error }) (*domain.Equipment, error) {
	var e domain.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.Model, &e.SerialNumber, &e.Status, &e.RawCategory, &e.IsSpecial,
		&e.Team, &e.Manufacturer, &e.ProductionDate, &e.CommissionDate,
		&e.NextInspectionDate, &e.LastInspectionDate, &e.InspectionCycle, &e.Inspector, &e.SpecialLicense,
		&e.Notes, &e.MotorModel, &e.PowerRating, &e.MAExCode, &e.ReducerModel, &e.Location, &e.Usage,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func equipmentArgs(e *domain.Equipment) []any {
	return []any{
		e.Name, e.Model, e.SerialNumber, string(e.Status), string(e.RawCategory), e.IsSpecial,
		e.Team, e.Manufacturer, e.ProductionDate, e.CommissionDate,
		e.NextInspectionDate, e.LastInspectionDate, e.InspectionCycle, e.Inspector, e.SpecialLicense,
		e.Notes, e.MotorModel, e.PowerRating, e.MAExCode, e.ReducerModel, e.Location, e.Usage,
	}
}

func (r *PostgresEquipmentRepo) List(ctx context.Context) ([]domain.Equipment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+equipmentColumns+` FROM equipment ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	eqs := []domain.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		eqs = append(eqs, *e)
	}
	return eqs, rows.Err()
}

// Create 以 max(id)+1 分配 ID 并落库，返回带 ID 的记录
func (r *PostgresEquipmentRepo) Create(ctx context.Context, e domain.Equipment) (domain.Equipment, error) {
	query := `INSERT INTO equipment (` + equipmentColumns + `)
		 VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM equipment),
		         $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		         $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		 RETURNING id`
	err := r.db.QueryRowContext(ctx, query, equipmentArgs(&e)...).Scan(&e.ID)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("create equipment: %w", err)
	}
	return e, nil
}

func (r *PostgresEquipmentRepo) Replace(ctx context.Context, id int, e domain.Equipment) error {
	args := append([]any{id}, equipmentArgs(&e)...)
	res, err := r.db.ExecContext(ctx,
		`UPDATE equipment SET
			name = $2, model = $3, serial_number = $4, status = $5, category = $6, is_special = $7,
			team = $8, manufacturer = $9, production_date = $10, commission_date = $11,
			next_inspection_date = $12, last_inspection_date = $13, inspection_cycle = $14,
			inspector = $15, special_license = $16, notes = $17,
			motor_model = $18, power_rating = $19, ma_ex_code = $20, reducer_model = $21,
			location = $22, "usage" = $23
		 WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("replace equipment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除设备并在同一事务内级联删除其日志
func (r *PostgresEquipmentRepo) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM logs WHERE eq_id = $1`, id); err != nil {
		return fmt.Errorf("cascade delete logs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return tx.Commit()
}
