package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"creditreport-backend/internal/shared/config"
	"creditreport-backend/internal/shared/server"
)

const reportXML = `<INProfileResponse>
  <SCORE>
    <BureauScore>742</BureauScore>
  </SCORE>
  <CAIS_Account>
    <CAIS_Account_DETAILS>
      <Account_Number>XXXX1234</Account_Number>
      <Account_Type>10</Account_Type>
      <Subscriber_Name>HDFC Bank</Subscriber_Name>
      <Account_Status>11</Account_Status>
      <CAIS_Holder_Details>
        <First_Name_Non_Normalized>RAHUL</First_Name_Non_Normalized>
        <Surname_Non_Normalized>SHARMA</Surname_Non_Normalized>
        <Income_TAX_PAN>ABCDE1234F</Income_TAX_PAN>
      </CAIS_Holder_Details>
    </CAIS_Account_DETAILS>
  </CAIS_Account>
</INProfileResponse>`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return server.NewRouter(config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		Env:             "dev",
	})
}

func xmlUploadRequest(t *testing.T, fileName, contentType, payload string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form part: %v", err)
	}
	if _, err := part.Write([]byte(payload)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func TestUploadProcessAndFetch(t *testing.T) {
	router := newTestRouter(t)

	req := xmlUploadRequest(t, "report.xml", "text/xml", reportXML)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", resp.Code, resp.Body.String())
	}

	var accepted struct {
		ReportID string `json:"reportId"`
		UploadID string `json:"uploadId"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if accepted.ReportID == "" || accepted.UploadID == "" {
		t.Fatalf("expected identifiers in response, got %+v", accepted)
	}
	if accepted.Status != "processing" {
		t.Fatalf("expected status processing, got %q", accepted.Status)
	}

	// Poll the status endpoint until extraction lands.
	var status struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		reqStatus := httptest.NewRequest(http.MethodGet, "/api/v1/reports/upload/"+accepted.ReportID+"/status", nil)
		addGuestHeader(reqStatus)
		respStatus := httptest.NewRecorder()
		router.ServeHTTP(respStatus, reqStatus)

		if respStatus.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", respStatus.Code, respStatus.Body.String())
		}
		if err := json.NewDecoder(respStatus.Body).Decode(&status); err != nil {
			t.Fatalf("decode status response: %v", err)
		}
		if status.Status == "processed" {
			break
		}
		if status.Status == "failed" {
			t.Fatalf("processing failed: %s", status.Error)
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for processing, status = %q", status.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Fetch the full report.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+accepted.ReportID, nil)
	addGuestHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", respGet.Code, respGet.Body.String())
	}
	var report struct {
		Status string `json:"status"`
		Data   *struct {
			BasicDetails struct {
				Name string `json:"name"`
				PAN  string `json:"pan"`
			} `json:"basicDetails"`
			CreditAccounts []struct {
				AccountType string `json:"accountType"`
			} `json:"creditAccounts"`
		} `json:"data"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&report); err != nil {
		t.Fatalf("decode report response: %v", err)
	}
	if report.Data == nil {
		t.Fatalf("expected extracted data in response")
	}
	if report.Data.BasicDetails.PAN != "ABCDE1234F" {
		t.Fatalf("pan = %q", report.Data.BasicDetails.PAN)
	}
	if len(report.Data.CreditAccounts) != 1 || report.Data.CreditAccounts[0].AccountType != "Credit Card" {
		t.Fatalf("unexpected accounts: %+v", report.Data.CreditAccounts)
	}
}

func TestUploadRejectsNonXML(t *testing.T) {
	router := newTestRouter(t)

	req := xmlUploadRequest(t, "report.pdf", "application/pdf", "%PDF-1.4")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Error.Message != "File must be XML format" {
		t.Fatalf("message = %q", body.Error.Message)
	}
}

func TestUploadRequiresIdentity(t *testing.T) {
	router := newTestRouter(t)

	req := xmlUploadRequest(t, "report.xml", "text/xml", reportXML)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestStatusIsScopedToOwner(t *testing.T) {
	router := newTestRouter(t)

	req := xmlUploadRequest(t, "report.xml", "text/xml", reportXML)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.Code)
	}
	var accepted struct {
		ReportID string `json:"reportId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	reqStatus := httptest.NewRequest(http.MethodGet, "/api/v1/reports/upload/"+accepted.ReportID+"/status", nil)
	reqStatus.Header.Set("X-Guest-Id", "someone-else")
	respStatus := httptest.NewRecorder()
	router.ServeHTTP(respStatus, reqStatus)

	if respStatus.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign guest, got %d", respStatus.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("ingestion_started_total")) {
		t.Fatalf("metrics output missing ingestion counters: %s", resp.Body.String())
	}
}
