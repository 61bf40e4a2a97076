package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// pdfGridSize gives Item Name three units and Date two; every numeric column
// gets one.
const pdfGridSize = 16

var pdfColumnSizes = []int{3, 2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}

// GeneratePDF renders the grouped items report as a landscape A4 PDF.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithMaxGridSize(pdfGridSize).
		WithLeftMargin(8).
		WithTopMargin(10).
		WithRightMargin(8).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	for _, g := range data.Groups {
		addShopSection(m, g)
	}
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(pdfGridSize).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(4),
	)
}

// addShopSection adds the shop banner, the column headers and one row per item.
func addShopSection(m core.Maroto, g ExportGroup) {
	bannerCell := &props.Cell{BackgroundColor: &props.Color{Red: 112, Green: 173, Blue: 71}}
	m.AddRows(
		row.New(8).Add(
			col.New(pdfGridSize).Add(
				text.New(g.ShopName, props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Center,
					Color: &props.Color{Red: 255, Green: 255, Blue: 255},
				}),
			).WithStyle(bannerCell),
		),
	)

	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 217, Green: 225, Blue: 242}}
	headerText := props.Text{Size: 6, Style: fontstyle.Bold, Align: align.Center}
	header := row.New(7)
	for i, h := range ExportHeaders {
		header.Add(col.New(pdfColumnSizes[i]).Add(text.New(h, headerText)).WithStyle(headerCell))
	}
	m.AddRows(header)

	leftText := props.Text{Size: 6, Align: align.Left}
	rightText := props.Text{Size: 6, Align: align.Right}
	for _, r := range g.Rows {
		line := row.New(6).Add(
			col.New(pdfColumnSizes[0]).Add(text.New(r.ItemName, leftText)),
			col.New(pdfColumnSizes[1]).Add(text.New(r.Date, leftText)),
			col.New(pdfColumnSizes[2]).Add(text.New(formatQty(r.Qty), rightText)),
		)
		for i, v := range r.values()[1:] {
			line.Add(col.New(pdfColumnSizes[i+3]).Add(text.New(fmt.Sprintf("%.2f", v), rightText)))
		}
		m.AddRows(line)
	}

	totalText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(6).Add(
			col.New(pdfGridSize-4).Add(text.New("Shop total", totalText)),
			col.New(4).Add(text.New(FormatLKR(g.TotalFinalValue), totalText)),
		),
		row.New(4),
	)
}

func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(6).Add(
			col.New(pdfGridSize).Add(
				text.New(
					fmt.Sprintf("%d item(s). Generated on %s", data.TotalItems, data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
