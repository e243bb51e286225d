package main

import (
    "math"
    "net/http"
    "os"
    "time"

    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "bagreg/internal/dataset"
    "bagreg/internal/ensemble"
    "bagreg/internal/features"
    "bagreg/pkg/utils"
)

var model *ensemble.Ensemble

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    path := os.Getenv("MODEL_PATH")
    if path == "" { path = "models/ensemble" }

    var err error
    model, err = ensemble.Load(path)
    if err != nil {
        logger.Fatal("Falha ao carregar ensemble", zap.String("path", path), zap.Error(err))
    }
    logger.Info("Ensemble carregado",
        zap.String("uid", model.UID),
        zap.Int("membros", model.NumMembers()),
        zap.Int("features", model.NumFeatures()))

    r := gin.Default()

    r.GET("/health", handleHealth)

    api := r.Group("/")
    api.Use(apiKeyMiddleware)
    api.POST("/predict", handlePredict)
    api.POST("/predict_vector", handlePredictVector)

    port := os.Getenv("PORT")
    if port == "" { port = "8080" }
    r.Run(":" + port)
}

func apiKeyMiddleware(c *gin.Context) {
    key := os.Getenv("API_KEY")
    if key == "" { c.Next(); return }
    got := c.GetHeader("X-API-Key")
    if got != key { c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"}); return }
    c.Next()
}

func handleHealth(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{
        "status":   "ok",
        "uid":      model.UID,
        "membros":  model.NumMembers(),
        "features": model.NumFeatures(),
    })
}

type predictReq struct {
    ExpenseID      string  `json:"expense_id"`
    RequestID      string  `json:"request_id"`
    RequesterID    string  `json:"requester_id"`
    TravellerID    string  `json:"traveller_id"`
    ApproverID     string  `json:"approver_id"`
    RequestDate    string  `json:"request_date"`
    TravelDate     string  `json:"travel_date"`
    Category       string  `json:"category"`
    Description    string  `json:"description"`
    Currency       string  `json:"currency"`
    JobTitle       string  `json:"job_title"`
    Department     string  `json:"department"`
    ApprovalStatus string  `json:"approval_status"`
}

func handlePredict(c *gin.Context) {
    var req predictReq
    if err := c.BindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return
    }
    rd, _ := time.Parse("2006-01-02", req.RequestDate)
    td, _ := time.Parse("2006-01-02", req.TravelDate)
    e := dataset.Expense{
        ExpenseID:      req.ExpenseID,
        RequestID:      req.RequestID,
        RequesterID:    req.RequesterID,
        TravellerID:    req.TravellerID,
        ApproverID:     req.ApproverID,
        RequestDate:    rd,
        TravelDate:     td,
        Category:       req.Category,
        Description:    req.Description,
        Currency:       req.Currency,
        JobTitle:       req.JobTitle,
        Department:     req.Department,
        ApprovalStatus: req.ApprovalStatus,
    }
    v, _ := features.Vectorize(e)
    if len(v) != model.NumFeatures() {
        c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "vetor de features incompatível com o modelo"}); return
    }
    respond(c, v)
}

type vectorReq struct {
    Features []float64 `json:"features"`
}

func handlePredictVector(c *gin.Context) {
    var req vectorReq
    if err := c.BindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return
    }
    if len(req.Features) != model.NumFeatures() {
        c.JSON(http.StatusUnprocessableEntity, gin.H{
            "error":    "tamanho do vetor incompatível",
            "esperado": model.NumFeatures(),
            "recebido": len(req.Features),
        })
        return
    }
    respond(c, req.Features)
}

func respond(c *gin.Context, v []float64) {
    preds := model.MemberPredictions(v)
    pred := 0.0
    for _, p := range preds { pred += p }
    pred /= float64(len(preds))
    c.JSON(http.StatusOK, gin.H{
        "prediction": pred,
        "uid":        model.UID,
        "membros":    len(preds),
        "dispersao":  stddev(preds),
        "min":        minOf(preds),
        "max":        maxOf(preds),
    })
}

func stddev(xs []float64) float64 {
    if len(xs) == 0 { return 0 }
    var mean float64
    for _, x := range xs { mean += x }
    mean /= float64(len(xs))
    var s float64
    for _, x := range xs { d := x - mean; s += d * d }
    return math.Sqrt(s / float64(len(xs)))
}

func minOf(xs []float64) float64 {
    m := math.Inf(1)
    for _, x := range xs { if x < m { m = x } }
    return m
}

func maxOf(xs []float64) float64 {
    m := math.Inf(-1)
    for _, x := range xs { if x > m { m = x } }
    return m
}
