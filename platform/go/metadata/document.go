// Package metadata builds the small declarative documents the host tool deploys and
// serializes them to the platform's XML dialect.
package metadata

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Namespace is the xmlns carried by every metadata document root.
const Namespace = "http://soap.sforce.com/2006/04/metadata"

const indent = "    "

// Field is one element of a metadata document. A field carries either a text value or children.
type Field struct {
	Name     string
	Value    string
	Children []Field
}

// Document is a metadata file: a root element named after the metadata type plus ordered fields.
type Document struct {
	Type      string
	Namespace string
	Fields    []Field
}

// Text builds a leaf field.
func Text(name, value string) Field {
	return Field{Name: name, Value: value}
}

// Group builds a field holding nested fields.
func Group(name string, children ...Field) Field {
	return Field{Name: name, Children: children}
}

// Encode writes the document as indented XML preceded by the standard declaration.
func (d Document) Encode(w io.Writer) error {
	if strings.TrimSpace(d.Type) == "" {
		return fmt.Errorf("metadata type is required")
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(bw)
	enc.Indent("", indent)

	root := xml.StartElement{Name: xml.Name{Space: d.Namespace, Local: d.Type}}
	if err := enc.EncodeToken(root); err != nil {
		return fmt.Errorf("encode %s: %w", d.Type, err)
	}
	for _, f := range d.Fields {
		if err := encodeField(enc, f); err != nil {
			return fmt.Errorf("encode %s: %w", d.Type, err)
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return fmt.Errorf("encode %s: %w", d.Type, err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// Bytes returns the encoded document.
func (d Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the document to path, creating parent directories as needed.
func WriteFile(path string, doc Document) error {
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

func encodeField(enc *xml.Encoder, f Field) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("field name is required")
	}

	start := xml.StartElement{Name: xml.Name{Local: f.Name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if len(f.Children) > 0 {
		for _, c := range f.Children {
			if err := encodeField(enc, c); err != nil {
				return err
			}
		}
	} else if f.Value != "" {
		if err := enc.EncodeToken(xml.CharData(f.Value)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
