package service

import (
	"context"
	"time"

	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
)

// CommissionLine is one employee's row in a quarterly commission report
type CommissionLine struct {
	EmployeeID      uuid.UUID `json:"employeeId"`
	EmployeeName    string    `json:"employeeName"`
	SaleCount       int64     `json:"saleCount"`
	TotalSales      string    `json:"totalSales"`
	TotalCommission string    `json:"totalCommission"`
}

type CommissionReport struct {
	Year      int              `json:"year"`
	Quarter   int              `json:"quarter"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Employees []CommissionLine `json:"employees"`
}

type ReportService interface {
	GetQuarterlyCommissions(ctx context.Context, year, quarter int) (*CommissionReport, error)
	GetEmployeeQuarterlyCommission(ctx context.Context, employeeID uuid.UUID, year, quarter int) (*CommissionLine, error)
}

type reportService struct {
	saleRepo     repository.SaleRepository
	employeeRepo repository.EmployeeRepository
}

func NewReportService(sales repository.SaleRepository, employees repository.EmployeeRepository) ReportService {
	return &reportService{saleRepo: sales, employeeRepo: employees}
}

// QuarterBounds returns [start, end) of the calendar quarter in UTC
func QuarterBounds(year, quarter int) (time.Time, time.Time, error) {
	if quarter < 1 || quarter > 4 {
		return time.Time{}, time.Time{}, invalidArgument("quarter must be between 1 and 4, got %d", quarter)
	}
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, invalidArgument("year out of range: %d", year)
	}
	start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 3, 0), nil
}

func (s *reportService) GetQuarterlyCommissions(ctx context.Context, year, quarter int) (*CommissionReport, error) {
	start, end, err := QuarterBounds(year, quarter)
	if err != nil {
		return nil, err
	}

	summaries, err := s.saleRepo.CommissionSummaries(ctx, start, end, nil)
	if err != nil {
		return nil, err
	}

	report := &CommissionReport{
		Year:      year,
		Quarter:   quarter,
		StartDate: start,
		EndDate:   end,
		Employees: make([]CommissionLine, 0, len(summaries)),
	}
	for _, sum := range summaries {
		report.Employees = append(report.Employees, toCommissionLine(sum))
	}
	return report, nil
}

func (s *reportService) GetEmployeeQuarterlyCommission(ctx context.Context, employeeID uuid.UUID, year, quarter int) (*CommissionLine, error) {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, lookupError(err, "employee", employeeID)
	}
	start, end, err := QuarterBounds(year, quarter)
	if err != nil {
		return nil, err
	}

	summaries, err := s.saleRepo.CommissionSummaries(ctx, start, end, &employeeID)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		// no sales in the quarter is a valid zero line
		return &CommissionLine{
			EmployeeID:      employee.ID,
			EmployeeName:    employee.Name,
			TotalSales:      "0.00",
			TotalCommission: "0.00",
		}, nil
	}
	line := toCommissionLine(summaries[0])
	return &line, nil
}

func toCommissionLine(sum repository.CommissionSummary) CommissionLine {
	return CommissionLine{
		EmployeeID:      sum.EmployeeID,
		EmployeeName:    sum.EmployeeName,
		SaleCount:       sum.SaleCount,
		TotalSales:      sum.TotalSales.StringFixed(2),
		TotalCommission: sum.TotalCommission.StringFixed(2),
	}
}
