package dataset

import (
    "encoding/csv"
    "fmt"
    "math/rand"
    "os"
    "path/filepath"
    "strconv"
    "strings"
    "time"
)

var categories = []string{"Alimentação", "Transporte", "Taxi", "Pedágio", "Hospedagem"}
var departments = []string{"Financeiro", "Comercial", "Operações", "Tecnologia", "RH"}
var jobTitles = []string{"Analista", "Coordenador", "Gerente", "Especialista", "Diretor"}

var categoryBase = map[string]float64{
    "Alimentação": 60,
    "Transporte":  180,
    "Taxi":        45,
    "Pedágio":     25,
    "Hospedagem":  420,
}

var jobMultiplier = map[string]float64{
    "Analista":     1.0,
    "Coordenador":  1.15,
    "Gerente":      1.35,
    "Especialista": 1.1,
    "Diretor":      1.8,
}

// GenerateSyntheticExpenses gera um CSV de despesas sintéticas cujo
// valor (amount) é uma função ruidosa das demais colunas, servindo de
// alvo de regressão para o treinamento.
func GenerateSyntheticExpenses(n int, seed int64, outPath string) error {
    if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
        return err
    }
    f, err := os.Create(outPath)
    if err != nil {
        return err
    }
    defer f.Close()

    w := csv.NewWriter(f)
    defer w.Flush()

    header := []string{"expense_id", "request_id", "requester_id", "traveller_id", "approver_id", "request_date", "travel_date", "category", "description", "amount", "currency", "job_title", "department", "approval_status"}
    if err := w.Write(header); err != nil {
        return err
    }

    rng := rand.New(rand.NewSource(seed))
    baseDate := time.Now().AddDate(-1, 0, 0)

    for i := 0; i < n; i++ {
        expenseID := "E" + strconv.Itoa(1000000+i)
        requestID := "R" + strconv.Itoa(500000+i)
        requesterID := "U" + strconv.Itoa(rng.Intn(5000))
        travellerID := requesterID
        if rng.Float64() < 0.2 {
            travellerID = "U" + strconv.Itoa(rng.Intn(5000))
        }
        approverID := "A" + strconv.Itoa(rng.Intn(800))
        if rng.Float64() < 0.03 {
            approverID = requesterID
        }

        reqOffset := rng.Intn(300)
        travelOffset := reqOffset + rng.Intn(30)
        reqDate := baseDate.AddDate(0, 0, reqOffset)
        travelDate := baseDate.AddDate(0, 0, travelOffset)

        cat := categories[rng.Intn(len(categories))]
        words := []string{"almoço", "viagem", "hotel", "uber", "táxi", "pedágio", "combustível", "reunião", "cliente", "evento"}
        desc := cat + " " + words[rng.Intn(len(words))] + " " + words[rng.Intn(len(words))]

        job := jobTitles[rng.Intn(len(jobTitles))]
        dept := departments[rng.Intn(len(departments))]

        status := "Aprovado"
        if rng.Float64() < 0.1 {
            status = "Reprovado"
        } else if rng.Float64() < 0.1 {
            status = "Pendente"
        }

        interval := float64(travelOffset - reqOffset)
        amount := categoryBase[cat] * jobMultiplier[job]
        amount += interval * 3.5
        if wd := reqDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
            amount *= 1.2
        }
        if dept == "Comercial" { amount *= 1.1 }
        amount += rng.NormFloat64() * 0.08 * amount
        if amount < 5 { amount = 5 }

        rec := []string{
            expenseID,
            requestID,
            requesterID,
            travellerID,
            approverID,
            reqDate.Format("2006-01-02"),
            travelDate.Format("2006-01-02"),
            cat,
            strings.ToLower(desc),
            strconv.FormatFloat(amount, 'f', 2, 64),
            "BRL",
            job,
            dept,
            status,
        }
        if err := w.Write(rec); err != nil {
            return err
        }
    }
    return nil
}

// LoadExpenses lê de volta o CSV gerado (ou um CSV real no mesmo layout).
func LoadExpenses(path string) ([]Expense, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, err
    }
    defer f.Close()

    r := csv.NewReader(f)
    rows, err := r.ReadAll()
    if err != nil {
        return nil, err
    }
    if len(rows) < 2 {
        return nil, fmt.Errorf("CSV vazio: %s", path)
    }

    out := make([]Expense, 0, len(rows)-1)
    for i := 1; i < len(rows); i++ {
        row := rows[i]
        if len(row) < 14 {
            return nil, fmt.Errorf("linha %d com %d colunas, esperado 14", i, len(row))
        }
        reqDate, _ := time.Parse("2006-01-02", row[5])
        travelDate, _ := time.Parse("2006-01-02", row[6])
        amount, err := strconv.ParseFloat(row[9], 64)
        if err != nil {
            return nil, fmt.Errorf("linha %d: amount inválido: %w", i, err)
        }
        out = append(out, Expense{
            ExpenseID:      row[0],
            RequestID:      row[1],
            RequesterID:    row[2],
            TravellerID:    row[3],
            ApproverID:     row[4],
            RequestDate:    reqDate,
            TravelDate:     travelDate,
            Category:       row[7],
            Description:    row[8],
            Amount:         amount,
            Currency:       row[10],
            JobTitle:       row[11],
            Department:     row[12],
            ApprovalStatus: row[13],
        })
    }
    return out, nil
}
