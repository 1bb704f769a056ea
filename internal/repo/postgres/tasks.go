package postgres

import (
	"context"
	"errors"

	"github.com/docket-app/docket/internal/domain/task"
	"github.com/docket-app/docket/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TasksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTasksRepo(pool *pgxpool.Pool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{pool: pool, prom: prom}
}

func (r *TasksRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TasksRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	err := r.observe("tasks.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO tasks (name, due_date, priority, status, posted_date, owner_id)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			t.Name, t.DueDate, t.Priority, t.Status, t.PostedDate, t.OwnerID,
		).Scan(&t.ID)
	})

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) GetByID(ctx context.Context, id int64) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, due_date, priority, status, posted_date, owner_id
			 FROM tasks
			 WHERE id = $1`,
			id,
		).Scan(&t.ID, &t.Name, &t.DueDate, &t.Priority, &t.Status, &t.PostedDate, &t.OwnerID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}

		return task.Task{}, err
	}

	return t, nil
}

// MarkComplete flips status to closed. Completing an already-closed task
// matches the row and is a state no-op, so the call stays idempotent.
func (r *TasksRepo) MarkComplete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag
	var err error
	op := "tasks.mark_complete"

	err = r.observe(op, func() error {
		tag, err = r.pool.Exec(ctx,
			`UPDATE tasks SET status = $2 WHERE id = $1`,
			id, task.StatusClosed,
		)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return task.ErrNotFound
	}

	return nil
}

func (r *TasksRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag
	var err error
	op := "tasks.delete"

	err = r.observe(op, func() error {
		tag, err = r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return task.ErrNotFound
	}

	return nil
}

func (r *TasksRepo) ListOpen(ctx context.Context) ([]task.Task, error) {
	return r.listByStatus(ctx, "tasks.list_open", task.StatusOpen)
}

func (r *TasksRepo) ListClosed(ctx context.Context) ([]task.Task, error) {
	return r.listByStatus(ctx, "tasks.list_closed", task.StatusClosed)
}

func (r *TasksRepo) listByStatus(ctx context.Context, op, status string) (tasks []task.Task, err error) {
	var rows pgx.Rows

	err = r.observe(op, func() error {
		// id tie-break keeps insertion order stable for equal due dates
		rows, err = r.pool.Query(ctx,
			`SELECT id, name, due_date, priority, status, posted_date, owner_id
			 FROM tasks
			 WHERE status = $1
			 ORDER BY due_date ASC, id ASC`,
			status,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	tasks = make([]task.Task, 0)

	for rows.Next() {
		var t task.Task

		e := rows.Scan(&t.ID, &t.Name, &t.DueDate, &t.Priority, &t.Status, &t.PostedDate, &t.OwnerID)

		if e != nil {
			err = e
			return
		}
		tasks = append(tasks, t)
	}

	e := rows.Err()

	if e != nil {
		if r.prom != nil {
			r.prom.DbErrorsTotal.WithLabelValues(op, "rows_err").Inc()
		}
		err = e
		return
	}

	return
}
