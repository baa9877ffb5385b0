package options

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// BunStore persists options in a single name/value table.
type BunStore struct {
	db *bun.DB
}

var _ interfaces.OptionStore = (*BunStore)(nil)

type optionModel struct {
	bun.BaseModel `bun:"table:options"`

	Name      string    `bun:"name,pk"`
	Value     string    `bun:"value,notnull"`
	Autoload  bool      `bun:"autoload,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// NewBunStore constructs a Bun-backed option store.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// CreateSchema creates the options table when missing.
func (s *BunStore) CreateSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("options: bun store requires a database")
	}
	_, err := s.db.NewCreateTable().Model((*optionModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *BunStore) Get(ctx context.Context, name string) (any, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrOptionNameRequired
	}
	var model optionModel
	err := s.db.NewSelect().Model(&model).Where("name = ?", name).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	value, err := decode([]byte(model.Value))
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *BunStore) Add(ctx context.Context, name string, value any) (bool, error) {
	model, err := newOptionModel(name, value)
	if err != nil {
		return false, err
	}
	res, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *BunStore) Update(ctx context.Context, name string, value any) error {
	model, err := newOptionModel(name, value)
	if err != nil {
		return err
	}
	_, err = s.db.NewInsert().
		Model(model).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *BunStore) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrOptionNameRequired
	}
	_, err := s.db.NewDelete().Model((*optionModel)(nil)).Where("name = ?", name).Exec(ctx)
	return err
}

func newOptionModel(name string, value any) (*optionModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrOptionNameRequired
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &optionModel{
		Name:      name,
		Value:     string(raw),
		Autoload:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
