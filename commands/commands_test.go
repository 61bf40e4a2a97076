package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"lkrpricing/config"
	"lkrpricing/services"
	"lkrpricing/testhelpers"
)

func TestExportCommand_Excel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	shop := testhelpers.CreateTestShop(t, app, "CLI Shop")
	testhelpers.CreateTestCalculation(t, app, shop.Id, testhelpers.CalculationFields{ItemName: "Widget", FinalValue: 10})

	out := filepath.Join(t.TempDir(), "report.xlsx")
	cmd := NewExportCommand(app, config.Default())
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--out", out})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Exported 1 items from 1 shops") {
		t.Errorf("unexpected output: %q", stdout.String())
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex(services.ExportSheetName); idx < 0 {
		t.Errorf("expected sheet %q", services.ExportSheetName)
	}
}

func TestExportCommand_PDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	out := filepath.Join(t.TempDir(), "report.pdf")
	cmd := NewExportCommand(app, config.Default())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--out", out})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Error("expected a PDF file")
	}
}

func TestExportCommand_RejectsUnknownExtension(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	cmd := NewExportCommand(app, config.Default())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--out", filepath.Join(t.TempDir(), "report.txt")})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for .txt output")
	}
}

func TestSeedCommand(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := config.Default()

	var first bytes.Buffer
	cmd := NewSeedCommand(app, cfg)
	cmd.SetOut(&first)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(first.String(), "Sample data seeded") {
		t.Errorf("unexpected output: %q", first.String())
	}
	shops, _ := app.CountRecords("shops")
	if shops == 0 {
		t.Fatal("expected shops to be seeded")
	}

	var second bytes.Buffer
	cmd = NewSeedCommand(app, cfg)
	cmd.SetOut(&second)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if !strings.Contains(second.String(), "nothing seeded") {
		t.Errorf("unexpected output: %q", second.String())
	}
	again, _ := app.CountRecords("shops")
	if again != shops {
		t.Errorf("second seed changed shop count %d -> %d", shops, again)
	}
}
