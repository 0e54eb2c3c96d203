package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/logger"
	"spendtable/internal/metrics"
	"spendtable/internal/overview"
)

// overviewService assembles the pivoted expense table of a project.
type overviewService struct {
	db *gorm.DB
}

// NewOverviewService creates a new OverviewServicer.
func NewOverviewService(db *gorm.DB) OverviewServicer {
	return &overviewService{db: db}
}

type ledgerRow struct {
	CategoryID string
	Amount     decimal.Decimal
	SpentAt    time.Time
}

// BuildOverview loads the project's categories and the expenses inside the
// requested months (one query each) and lays them out as header rows and one
// value row per month.
func (s *overviewService) BuildOverview(userID, projectID string, req OverviewRequest) (*Overview, error) {
	start := time.Now()

	if _, err := findProject(s.db, userID, projectID); err != nil {
		return nil, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	periods, err := overview.GeneratePeriods(req.Months, req.From, req.To, now)
	if err != nil {
		if errors.Is(err, overview.ErrInvalidRange) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("invalid period range: months must be between 1 and %d and from must not be after to", overview.MaxPeriods))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	tree, _, err := loadTree(s.db, projectID)
	if err != nil {
		return nil, err
	}

	var rows []ledgerRow
	if err := s.db.Table("expenses").
		Select("category_id, amount, spent_at").
		Where("project_id = ? AND deleted_at IS NULL", projectID).
		Where("spent_at >= ? AND spent_at < ?", periods[0].Start.UTC(), periods[len(periods)-1].End.UTC()).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	entries := make([]overview.Entry, len(rows))
	for i, r := range rows {
		entries[i] = overview.Entry{CategoryID: r.CategoryID, Amount: r.Amount, SpentAt: r.SpentAt}
	}

	levels, err := overview.BuildLevels(tree, nil)
	if err != nil {
		return nil, treeError(err, projectID)
	}
	headers, err := overview.BuildHeaderRows(tree, levels)
	if err != nil {
		return nil, treeError(err, projectID)
	}
	columns, err := overview.ColumnCount(tree, nil)
	if err != nil {
		return nil, treeError(err, projectID)
	}
	valueRows, err := overview.BuildValueRows(tree, overview.NewLedger(entries), periods)
	if err != nil {
		return nil, treeError(err, projectID)
	}

	if leaves := overview.LeafColumns(headers); len(leaves) != columns {
		logger.Get().Errorw("overview header does not cover every column",
			"project_id", projectID, "columns", columns, "header_columns", len(leaves))
		return nil, apperrors.Wrap(apperrors.ErrInternalServer,
			fmt.Errorf("header covers %d columns, values have %d", len(leaves), columns))
	}

	elapsed := time.Since(start)
	metrics.OverviewBuildDuration.Observe(elapsed.Seconds())
	metrics.OverviewColumns.Observe(float64(columns))
	logger.Get().Debugw("overview built",
		"project_id", projectID,
		"categories", tree.Len(),
		"expenses", len(entries),
		"periods", len(periods),
		"columns", columns,
		"duration_ms", elapsed.Milliseconds(),
	)

	return &Overview{
		Tree:       tree,
		Columns:    columns,
		HeaderRows: headers,
		Rows:       valueRows,
	}, nil
}
