package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/pkg/metrics"
)

// ErrDiveNotFound 潜水记录不存在
var ErrDiveNotFound = errors.New("dive not found")

const diveColumns = `id, dive_datetime, location, max_depth, duration, buddy, latitude, longitude,
	samples, equipment, conditions, dive_type, rating, notes, safety_stops, created_at, updated_at`

const insertDiveSQL = `
	INSERT INTO dives (dive_datetime, location, max_depth, duration, buddy, latitude, longitude,
		samples, equipment, conditions, dive_type, rating, notes, safety_stops)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id, created_at, updated_at
`

// DiveRepository 潜水记录仓库
type DiveRepository struct {
	db      *DB
	metrics *metrics.Collector
}

// NewDiveRepository 创建潜水记录仓库，collector 可为 nil
func NewDiveRepository(db *DB, collector *metrics.Collector) *DiveRepository {
	return &DiveRepository{db: db, metrics: collector}
}

func (r *DiveRepository) observe(queryType string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.ObserveQuery(queryType, start, err)
	}
}

// Create 创建潜水记录，回填 id 与时间戳
func (r *DiveRepository) Create(ctx context.Context, dive *models.Dive) (err error) {
	defer func(start time.Time) { r.observe("create_dive", start, err) }(time.Now())

	args, err := diveArgs(dive)
	if err != nil {
		return err
	}

	err = r.db.Pool.QueryRow(ctx, insertDiveSQL, args...).Scan(&dive.ID, &dive.CreatedAt, &dive.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert dive: %w", err)
	}
	return nil
}

// BulkCreate 在一个事务中批量创建，返回带 id 的记录
func (r *DiveRepository) BulkCreate(ctx context.Context, dives []models.Dive) (created []models.Dive, err error) {
	defer func(start time.Time) { r.observe("bulk_create_dives", start, err) }(time.Now())

	if len(dives) == 0 {
		return []models.Dive{}, nil
	}

	batch := &pgx.Batch{}
	for i := range dives {
		args, err := diveArgs(&dives[i])
		if err != nil {
			return nil, fmt.Errorf("dive %d: %w", i+1, err)
		}
		batch.Queue(insertDiveSQL, args...)
	}

	created = make([]models.Dive, len(dives))
	copy(created, dives)

	err = pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		for i := range created {
			d := &created[i]
			if err := br.QueryRow().Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
				br.Close()
				return fmt.Errorf("insert dive %d: %w", i+1, err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("bulk create dives: %w", err)
	}
	return created, nil
}

// Update 更新潜水记录
func (r *DiveRepository) Update(ctx context.Context, dive *models.Dive) (err error) {
	defer func(start time.Time) { r.observe("update_dive", start, err) }(time.Now())

	args, err := diveArgs(dive)
	if err != nil {
		return err
	}

	query := `
		UPDATE dives SET
			dive_datetime = $1,
			location = $2,
			max_depth = $3,
			duration = $4,
			buddy = $5,
			latitude = $6,
			longitude = $7,
			samples = $8,
			equipment = $9,
			conditions = $10,
			dive_type = $11,
			rating = $12,
			notes = $13,
			safety_stops = $14,
			updated_at = NOW()
		WHERE id = $15
		RETURNING created_at, updated_at
	`
	err = r.db.Pool.QueryRow(ctx, query, append(args, dive.ID)...).Scan(&dive.CreatedAt, &dive.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDiveNotFound
	}
	if err != nil {
		return fmt.Errorf("update dive: %w", err)
	}
	return nil
}

// Delete 删除潜水记录
func (r *DiveRepository) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { r.observe("delete_dive", start, err) }(time.Now())

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM dives WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDiveNotFound
	}
	return nil
}

// GetByID 获取潜水记录
func (r *DiveRepository) GetByID(ctx context.Context, id int64) (dive *models.Dive, err error) {
	defer func(start time.Time) { r.observe("get_dive", start, err) }(time.Now())

	query := `SELECT ` + diveColumns + ` FROM dives WHERE id = $1`
	dive, err = scanDive(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDiveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dive by id: %w", err)
	}
	return dive, nil
}

// List 全部潜水记录，按时间倒序
func (r *DiveRepository) List(ctx context.Context) (dives []models.Dive, err error) {
	defer func(start time.Time) { r.observe("list_dives", start, err) }(time.Now())

	query := `SELECT ` + diveColumns + ` FROM dives ORDER BY dive_datetime DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dives: %w", err)
	}
	defer rows.Close()

	dives = []models.Dive{}
	for rows.Next() {
		dive, err := scanDive(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dive: %w", err)
		}
		dives = append(dives, *dive)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dives: %w", err)
	}

	return dives, nil
}

// diveArgs 按 insertDiveSQL 的参数顺序展开
func diveArgs(d *models.Dive) ([]any, error) {
	samples, err := marshalJSONB(d.Samples, len(d.Samples) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode samples: %w", err)
	}
	var equipment, conditions driver.Value
	if d.Equipment != nil {
		if equipment, err = d.Equipment.Value(); err != nil {
			return nil, fmt.Errorf("encode equipment: %w", err)
		}
	}
	if d.Conditions != nil {
		if conditions, err = d.Conditions.Value(); err != nil {
			return nil, fmt.Errorf("encode conditions: %w", err)
		}
	}
	stops, err := marshalJSONB(d.SafetyStops, len(d.SafetyStops) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode safety stops: %w", err)
	}

	return []any{
		d.DateTime.UTC(),
		d.Location,
		d.Depth,
		d.Duration,
		d.Buddy,
		d.Lat,
		d.Lng,
		samples,
		equipment,
		conditions,
		d.DiveType,
		d.Rating,
		d.Notes,
		stops,
	}, nil
}

// scanDive 适配 pgx.Row 与 pgx.Rows
func scanDive(row pgx.Row) (*models.Dive, error) {
	d := &models.Dive{}
	var samples, equipment, conditions, stops []byte

	err := row.Scan(
		&d.ID,
		&d.DateTime,
		&d.Location,
		&d.Depth,
		&d.Duration,
		&d.Buddy,
		&d.Lat,
		&d.Lng,
		&samples,
		&equipment,
		&conditions,
		&d.DiveType,
		&d.Rating,
		&d.Notes,
		&stops,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.DateTime = d.DateTime.UTC()
	if err := unmarshalJSONB(samples, &d.Samples); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	if equipment != nil {
		d.Equipment = &models.Equipment{}
		if err := d.Equipment.Scan(equipment); err != nil {
			return nil, fmt.Errorf("decode equipment: %w", err)
		}
	}
	if conditions != nil {
		d.Conditions = &models.DiveConditions{}
		if err := d.Conditions.Scan(conditions); err != nil {
			return nil, fmt.Errorf("decode conditions: %w", err)
		}
	}
	if err := unmarshalJSONB(stops, &d.SafetyStops); err != nil {
		return nil, fmt.Errorf("decode safety stops: %w", err)
	}
	return d, nil
}

// marshalJSONB 空值存为 NULL
func marshalJSONB(v any, empty bool) ([]byte, error) {
	if empty {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalJSONB NULL 保持零值
func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}
