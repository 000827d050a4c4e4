// Package repository contém as implementações do histórico de análises
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/shop-analyzer-api/infrastructure/database/postgres"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

const analysisHistoryTable = "analysis_history"

var analysisHistoryColumns = []string{
	"id",
	"type",
	"shop_name",
	"followers",
	"items_count",
	"total_sales",
	"total_revenue",
	"transaction_count",
	"average_order_value",
	"top_brands",
	"created_at",
}

type AnalysisHistoryRepository struct {
	conn postgres.Conn
	size int
}

// NewAnalysisHistoryRepository histórico em PostgreSQL limitado às size análises mais recentes
func NewAnalysisHistoryRepository(conn postgres.Conn, size int) *AnalysisHistoryRepository {
	return &AnalysisHistoryRepository{
		conn: conn,
		size: size,
	}
}

func insertSummaryQuery(summary *domain.AnalysisSummary) (string, []interface{}, error) {
	return squirrel.
		Insert(analysisHistoryTable).
		Columns(analysisHistoryColumns...).
		Values(
			summary.ID,
			summary.Type,
			summary.ShopName,
			summary.Followers,
			summary.ItemsCount,
			summary.TotalSales,
			summary.TotalRevenue,
			summary.TransactionCount,
			summary.AverageOrder,
			pq.Array(summary.TopBrands),
			summary.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// trimQuery remove tudo que estiver fora das size entradas mais recentes
func trimQuery(size int) (string, []interface{}, error) {
	return squirrel.
		Delete(analysisHistoryTable).
		Where(squirrel.Expr(
			"id NOT IN (SELECT id FROM "+analysisHistoryTable+" ORDER BY created_at DESC, seq DESC LIMIT ?)", size,
		)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func listQuery(limit int) (string, []interface{}, error) {
	return squirrel.
		Select(analysisHistoryColumns...).
		From(analysisHistoryTable).
		OrderBy("created_at DESC", "seq DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func deleteOlderThanQuery(cutoff time.Time) (string, []interface{}, error) {
	return squirrel.
		Delete(analysisHistoryTable).
		Where(squirrel.Lt{"created_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *AnalysisHistoryRepository) Save(ctx context.Context, summary *domain.AnalysisSummary) error {
	insertSQL, insertArgs, err := insertSummaryQuery(summary)
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query de inserção")
	}

	trimSQL, trimArgs, err := trimQuery(r.size)
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query de limpeza")
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return errors.Wrapf(err, "erro ao inserir análise %s", summary.ID)
		}
		if _, err := tx.ExecContext(ctx, trimSQL, trimArgs...); err != nil {
			return errors.Wrap(err, "erro ao limitar histórico de análises")
		}
		return nil
	})
}

func (r *AnalysisHistoryRepository) List(ctx context.Context, limit int) ([]*domain.AnalysisSummary, error) {
	if limit <= 0 || limit > r.size {
		limit = r.size
	}

	query, args, err := listQuery(limit)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a query")
	}
	defer rows.Close()

	summaries := make([]*domain.AnalysisSummary, 0, limit)
	for rows.Next() {
		summary := &domain.AnalysisSummary{}
		err := rows.Scan(
			&summary.ID,
			&summary.Type,
			&summary.ShopName,
			&summary.Followers,
			&summary.ItemsCount,
			&summary.TotalSales,
			&summary.TotalRevenue,
			&summary.TransactionCount,
			&summary.AverageOrder,
			pq.Array(&summary.TopBrands),
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear análise")
		}
		if summary.TopBrands == nil {
			summary.TopBrands = []string{}
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return summaries, nil
}

func (r *AnalysisHistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := deleteOlderThanQuery(cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao construir a query")
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao remover análises antigas")
	}

	return result.RowsAffected()
}
