package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
)

// BoardService manages boards and the cascade that removes a board's
// columns and cards with it.
type BoardService struct {
	Boards  repository.BoardRepository
	Columns repository.ColumnRepository
	Cards   repository.CardRepository
	Authz   *Authorizer
	Logger  *logrus.Logger
}

// ColumnWithCards is one lane of the full board view.
type ColumnWithCards struct {
	Column entity.Column
	Cards  []entity.Card
}

// BoardView is the board with its columns and their cards, both sorted
// ascending by order.
type BoardView struct {
	Board   entity.Board
	Columns []ColumnWithCards
}

// Create adds a board to the project. Requires project membership.
func (s *BoardService) Create(ctx context.Context, actor Actor, projectID, name string) (*entity.Board, error) {
	chain, err := s.Authz.CheckProjectAccess(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	board := &entity.Board{
		ProjectID: chain.Project.ID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Boards.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// ListByProject returns the project's boards, newest first.
func (s *BoardService) ListByProject(ctx context.Context, actor Actor, projectID string) ([]entity.Board, error) {
	chain, err := s.Authz.CheckProjectAccess(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	return s.Boards.ListByProject(ctx, chain.Project.ID)
}

// Get assembles the full board view: columns ascending by order, each with
// its cards ascending by order.
func (s *BoardService) Get(ctx context.Context, actor Actor, boardID string) (*BoardView, error) {
	chain, err := s.Authz.CheckBoardAccess(ctx, actor, boardID)
	if err != nil {
		return nil, err
	}

	columns, err := s.Columns.ListByBoard(ctx, chain.Board.ID)
	if err != nil {
		return nil, err
	}
	columnIDs := make([]string, 0, len(columns))
	for _, c := range columns {
		columnIDs = append(columnIDs, c.ID)
	}
	cards, err := s.Cards.ListByColumns(ctx, columnIDs)
	if err != nil {
		return nil, err
	}

	cardsByColumn := make(map[string][]entity.Card, len(columns))
	for _, card := range cards {
		cardsByColumn[card.ColumnID] = append(cardsByColumn[card.ColumnID], card)
	}

	view := &BoardView{Board: *chain.Board, Columns: make([]ColumnWithCards, 0, len(columns))}
	for _, col := range columns {
		cs := cardsByColumn[col.ID]
		if cs == nil {
			cs = []entity.Card{}
		}
		view.Columns = append(view.Columns, ColumnWithCards{Column: col, Cards: cs})
	}
	return view, nil
}

// Update renames a board.
func (s *BoardService) Update(ctx context.Context, actor Actor, boardID, name string) (*entity.Board, error) {
	chain, err := s.Authz.CheckBoardAccess(ctx, actor, boardID)
	if err != nil {
		return nil, err
	}
	chain.Board.Name = strings.TrimSpace(name)
	if err := s.Boards.Update(ctx, chain.Board); err != nil {
		return nil, err
	}
	return chain.Board, nil
}

// Delete removes the board with its columns and cards, leaf to root.
func (s *BoardService) Delete(ctx context.Context, actor Actor, boardID string) error {
	chain, err := s.Authz.CheckBoardAccess(ctx, actor, boardID)
	if err != nil {
		return err
	}

	columns, err := s.Columns.ListByBoard(ctx, chain.Board.ID)
	if err != nil {
		return err
	}
	columnIDs := make([]string, 0, len(columns))
	for _, c := range columns {
		columnIDs = append(columnIDs, c.ID)
	}

	if err := s.Cards.DeleteByColumns(ctx, columnIDs); err != nil {
		return err
	}
	if err := s.Columns.DeleteByBoard(ctx, chain.Board.ID); err != nil {
		return err
	}
	if err := s.Boards.Delete(ctx, chain.Board.ID); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"board_id": chain.Board.ID, "columns": len(columnIDs)}).Info("board deleted")
	}
	return nil
}
