package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// ExportHandler produces the printable registers the service desk keeps for
// audits: the inward register and the job card register, as .xlsx downloads.
// The same q search parameter the index screens use filters the export.
type ExportHandler struct {
	db *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

// ExportInwards writes the inward register.
func (h *ExportHandler) ExportInwards(w http.ResponseWriter, r *http.Request) {
	params := models.ParseListParams(r, models.MaxPageSize)

	var inwards []models.ServiceInward
	q := params.ApplySearch(h.db.Model(&models.ServiceInward{}),
		"rma", "brand", "model", "serial_no")
	if err := q.Preload("Contact").Preload("ReceivedBy").
		Order("created_at ASC").Find(&inwards).Error; err != nil {
		respondError(w, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Inward Register"
	index, err := f.NewSheet(sheet)
	if err != nil {
		respondError(w, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"RMA", "Received", "Contact", "Mobile", "Material", "Brand", "Model", "Serial No", "Received By", "Job Created"}
	writeHeaderRow(f, sheet, headers)

	for i, in := range inwards {
		row := i + 2
		contactName, mobile := "", ""
		if in.Contact != nil {
			contactName = in.Contact.Name
			mobile = in.Contact.Mobile
		}
		receivedBy := ""
		if in.ReceivedBy != nil {
			receivedBy = in.ReceivedBy.Name
		}
		serial := ""
		if in.SerialNo != nil {
			serial = *in.SerialNo
		}
		setRow(f, sheet, row,
			in.RMA,
			in.ReceivedDate.Time().Format("2006-01-02"),
			contactName,
			mobile,
			string(in.MaterialType),
			in.Brand,
			in.Model,
			serial,
			receivedBy,
			yesNo(in.JobCreated),
		)
	}

	sendWorkbook(w, f, "inward_register")
}

// ExportJobCards writes the job card register.
func (h *ExportHandler) ExportJobCards(w http.ResponseWriter, r *http.Request) {
	params := models.ParseListParams(r, models.MaxPageSize)

	var cards []models.JobCard
	q := params.ApplySearch(h.db.Model(&models.JobCard{}),
		"job_no", "diagnosis", "final_status")
	if err := q.Preload("Contact").Preload("ServiceStatus").Preload("ServiceInward").
		Order("id ASC").Find(&cards).Error; err != nil {
		respondError(w, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Job Card Register"
	index, err := f.NewSheet(sheet)
	if err != nil {
		respondError(w, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Job No", "RMA", "Contact", "Status", "Diagnosis", "Estimated", "Advance", "Final Bill", "Received", "Delivered"}
	writeHeaderRow(f, sheet, headers)

	for i, card := range cards {
		row := i + 2
		rma := ""
		if card.ServiceInward != nil {
			rma = card.ServiceInward.RMA
		}
		contactName := ""
		if card.Contact != nil {
			contactName = card.Contact.Name
		}
		status := ""
		if card.ServiceStatus != nil {
			status = card.ServiceStatus.Name
		}
		delivered := ""
		if card.DeliveredAt != nil {
			delivered = card.DeliveredAt.Format("2006-01-02")
		}
		setRow(f, sheet, row,
			card.JobNo,
			rma,
			contactName,
			status,
			card.Diagnosis,
			card.EstimatedCost,
			card.AdvancePaid,
			card.FinalBill,
			card.ReceivedAt.Format("2006-01-02"),
			delivered,
		)
	}

	sendWorkbook(w, f, "jobcard_register")
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

func sendWorkbook(w http.ResponseWriter, f *excelize.File, name string) {
	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write workbook", http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
