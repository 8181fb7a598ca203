package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/shoplist"
)

type sqliteShoppingListRepo struct {
	db database.TxQuerier
}

// NewSQLiteShoppingListRepo returns a ShoppingListRepository.
func NewSQLiteShoppingListRepo(db database.TxQuerier) ShoppingListRepository {
	return &sqliteShoppingListRepo{db: db}
}

const shoppingListColumns = `id, user_id, title, start_date, end_date, items, created_at, updated_at`

func scanShoppingList(s scanner) (*models.ShoppingList, error) {
	l := &models.ShoppingList{}
	var items string
	if err := s.Scan(&l.ID, &l.UserID, &l.Title, &l.StartDate, &l.EndDate, &items, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Items = []shoplist.Item{}
	if err := decodeJSON(items, &l.Items); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *sqliteShoppingListRepo) Create(ctx context.Context, l *models.ShoppingList) error {
	l.ID = newID()
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now

	items, err := encodeJSON(l.Items)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (id, user_id, title, start_date, end_date, items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Title, l.StartDate, l.EndDate, items, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create shopping list: %w", err)
	}
	return nil
}

func (r *sqliteShoppingListRepo) GetByID(ctx context.Context, id string) (*models.ShoppingList, error) {
	l, err := scanShoppingList(r.db.QueryRowContext(ctx, `SELECT `+shoppingListColumns+` FROM shopping_lists WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "shopping list")
	}
	return l, nil
}

func (r *sqliteShoppingListRepo) ListByUser(ctx context.Context, userID string) ([]models.ShoppingList, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+shoppingListColumns+` FROM shopping_lists
		WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	lists := []models.ShoppingList{}
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (r *sqliteShoppingListRepo) SetItemChecked(ctx context.Context, id string, index int, checked bool) error {
	if index < 0 {
		return fmt.Errorf("%w: shopping list item %d", pkg.ErrNotFound, index)
	}
	item := fmt.Sprintf("$[%d]", index)
	value := "false"
	if checked {
		value = "true"
	}

	// json_set on $[len] would append, so the item must already exist.
	res, err := r.db.ExecContext(ctx, `
		UPDATE shopping_lists SET items = json_set(items, ?, json(?)), updated_at = ?
		WHERE id = ? AND json_type(items, ?) IS NOT NULL`,
		item+".checked", value, time.Now().UTC(), id, item,
	)
	if err != nil {
		return fmt.Errorf("failed to update shopping list item: %w", err)
	}
	return expectOne(res, "shopping list item")
}

func (r *sqliteShoppingListRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return expectOne(res, "shopping list")
}
