package export

import (
	"archive/zip"
	"bufio"
	"bytes"
	"compress/flate"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dimasma0305/juicectf/function/generator"
)

const ctfdCsvName = "challenges.csv"

// fixed timestamp for reproducible archives
var fixedTime = time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)

// EncodeCTFdCsv writes the header and one line per row. Cells are already
// escaped by the generator and are joined as they are.
func EncodeCTFdCsv(w io.Writer, rows []generator.CTFdRow) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(generator.CTFdHeader, ",") + "\n"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := bw.WriteString(strings.Join(row.Cells(), ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCTFdZip stores the challenges CSV in a zip archive at target.
func WriteCTFdZip(target string, rows []generator.CTFdRow) error {
	var csv bytes.Buffer
	if err := EncodeCTFdCsv(&csv, rows); err != nil {
		return fmt.Errorf("error encode csv: %w", err)
	}

	f, err := create(target)
	if err != nil {
		return err
	}
	defer f.Close()

	buffered := bufio.NewWriterSize(f, 1<<20)
	writer := zip.NewWriter(buffered)
	writer.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestSpeed)
	})

	header := &zip.FileHeader{
		Name:     ctfdCsvName,
		Method:   zip.Deflate,
		Modified: fixedTime,
	}
	header.SetMode(0644)
	entry, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("error create zip entry: %w", err)
	}
	if _, err := csv.WriteTo(entry); err != nil {
		return fmt.Errorf("error write zip entry: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("error close zip: %w", err)
	}
	return buffered.Flush()
}

func WriteJSON(target string, data any) error {
	f, err := create(target)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("error encode json: %w", err)
	}
	return nil
}

func WriteXML(target string, data any) error {
	f, err := create(target)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.WriteString(f, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("error encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err = io.WriteString(f, "\n")
	return err
}

func create(target string) (*os.File, error) {
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("error create output directory: %w", err)
		}
	}
	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("error create output file: %w", err)
	}
	return f, nil
}
