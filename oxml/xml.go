package oxml

import (
	"encoding/xml"
	"strings"
)

const wbBaseDir = "xl"

const (
	typeSheetUrl  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	typeDocUrl    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	typeSharedUrl = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
)

type xmlWorkbook struct {
	XMLName xml.Name         `xml:"workbook"`
	Sheets  []xmlSheet       `xml:"sheets>sheet"`
	Names   []xmlDefinedName `xml:"definedNames>definedName"`
}

type xmlSheet struct {
	XMLName xml.Name `xml:"sheet"`
	Id      string   `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Name    string   `xml:"name,attr"`
	Index   int      `xml:"sheetId,attr"`
	State   string   `xml:"state,attr"`
}

type xmlDefinedName struct {
	XMLName    xml.Name `xml:"definedName"`
	Name       string   `xml:"name,attr"`
	LocalSheet *int     `xml:"localSheetId,attr"`
	Hidden     bool     `xml:"hidden,attr"`
	Value      string   `xml:",chardata"`
}

type xmlRelations struct {
	XMLName   xml.Name      `xml:"Relationships"`
	Relations []xmlRelation `xml:"Relationship"`
}

type xmlRelation struct {
	XMLName xml.Name `xml:"Relationship"`
	Target  string   `xml:",attr"`
	Id      string   `xml:",attr"`
	Type    string   `xml:",attr"`
}

type xmlSharedStrings struct {
	XMLName xml.Name          `xml:"sst"`
	Values  []xmlSharedString `xml:"si"`
}

type xmlSharedString struct {
	Text string       `xml:"t"`
	Runs []xmlTextRun `xml:"r"`
}

func (s xmlSharedString) String() string {
	if len(s.Runs) == 0 {
		return s.Text
	}
	var str strings.Builder
	str.WriteString(s.Text)
	for _, r := range s.Runs {
		str.WriteString(r.Text)
	}
	return str.String()
}

type xmlTextRun struct {
	Text string `xml:"t"`
}
