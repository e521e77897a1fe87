package reports

import (
	"fmt"
	"io"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/modules/portfolio"
	"github.com/xuri/excelize/v2"
)

// Sheet names in export order
const (
	SheetExpenses  = "Expenses"
	SheetSavings   = "Savings"
	SheetTrades    = "Trades"
	SheetPositions = "Positions"
	SheetPortfolio = "Portfolio"
)

// Dataset is everything one export contains. Live is nil unless the export
// was asked to value positions at live prices.
type Dataset struct {
	Expenses  []domain.Expense
	Savings   []domain.Savings
	Trades    []domain.Trade
	Positions []domain.Position
	Live      *LiveValuation
}

// LiveValuation holds enriched positions and their aggregate
type LiveValuation struct {
	Positions []portfolio.EnrichedPosition
	Totals    portfolio.PortfolioSummary
}

// headerFill colors per sheet
var headerFill = map[string]string{
	SheetExpenses:  "#f4cccc",
	SheetSavings:   "#d9ead3",
	SheetTrades:    "#cfe2f3",
	SheetPositions: "#fff2cc",
	SheetPortfolio: "#f9cb9c",
}

// BuildWorkbook lays the dataset out one sheet per record kind
func BuildWorkbook(data Dataset) (*excelize.File, error) {
	f := excelize.NewFile()

	expenses := make([][]interface{}, 0, len(data.Expenses))
	for _, e := range data.Expenses {
		expenses = append(expenses, []interface{}{e.ID, e.Date, e.Category, e.Amount, e.Note})
	}
	if err := fillSheet(f, SheetExpenses, []interface{}{"ID", "Date", "Category", "Amount", "Note"}, expenses); err != nil {
		return nil, err
	}

	savings := make([][]interface{}, 0, len(data.Savings))
	for _, s := range data.Savings {
		savings = append(savings, []interface{}{s.ID, s.Date, s.Source, s.Amount, s.Note})
	}
	if err := fillSheet(f, SheetSavings, []interface{}{"ID", "Date", "Source", "Amount", "Note"}, savings); err != nil {
		return nil, err
	}

	trades := make([][]interface{}, 0, len(data.Trades))
	for _, t := range data.Trades {
		trades = append(trades, []interface{}{
			t.ID, t.EntryDate, t.Symbol, string(t.AssetType), string(t.TradeType),
			t.EntryPrice, t.Quantity, t.Volume(), t.Tags, t.Notes,
		})
	}
	if err := fillSheet(f, SheetTrades, []interface{}{
		"ID", "Date", "Symbol", "Asset Type", "Trade Type", "Price", "Quantity", "Volume", "Tags", "Notes",
	}, trades); err != nil {
		return nil, err
	}

	positions := make([][]interface{}, 0, len(data.Positions))
	for _, p := range data.Positions {
		positions = append(positions, []interface{}{
			p.ID, p.Symbol, string(p.AssetType), p.EntryDate, p.EntryPrice, p.Quantity, p.EntryValue(),
		})
	}
	if err := fillSheet(f, SheetPositions, []interface{}{
		"ID", "Symbol", "Asset Type", "Entry Date", "Entry Price", "Quantity", "Entry Value",
	}, positions); err != nil {
		return nil, err
	}

	if data.Live != nil {
		if err := fillPortfolioSheet(f, data.Live); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetExpenses); err == nil {
		f.SetActiveSheet(idx)
	}

	return f, nil
}

// WriteWorkbook builds the workbook and streams it to w as xlsx
func WriteWorkbook(w io.Writer, data Dataset) error {
	f, err := BuildWorkbook(data)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeHeader(f, sheet, header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	return nil
}

func writeHeader(f *excelize.File, sheet string, header []interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{headerFill[sheet]},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, styleID); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func optionalCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fillPortfolioSheet(f *excelize.File, live *LiveValuation) error {
	rows := make([][]interface{}, 0, len(live.Positions)+5)
	for _, e := range live.Positions {
		rows = append(rows, []interface{}{
			e.Symbol, string(e.AssetType), e.EntryDate, e.EntryPrice, e.Quantity, e.EntryValue,
			optionalCell(e.LivePrice), optionalCell(e.CurrentValue),
			optionalCell(e.UnrealizedPnL), optionalCell(e.UnrealizedPnLPercent), e.Error,
		})
	}

	t := live.Totals
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Total entry value", nil, nil, nil, nil, t.TotalEntryValue},
		[]interface{}{"Total current value", nil, nil, nil, nil, nil, nil, t.TotalCurrentValue},
		[]interface{}{"Total unrealized P&L", nil, nil, nil, nil, nil, nil, nil, t.TotalUnrealizedPnL, t.TotalUnrealizedPnLPercent},
	)

	return fillSheet(f, SheetPortfolio, []interface{}{
		"Symbol", "Asset Type", "Entry Date", "Entry Price", "Quantity", "Entry Value",
		"Live Price", "Current Value", "Unrealized P&L", "Unrealized P&L %", "Price Error",
	}, rows)
}
