package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	baseURL = "http://localhost:8095/api/v1"
)

// Helper to check errors
func check(err error) {
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func main() {
	log.Println("=== Starting E2E Integration Test (Simulating Field Agent Client) ===")

	// 1. Authenticate
	log.Println("1. Register/Login to get Token...")
	email := fmt.Sprintf("agent_e2e_%d@hnr.ma", time.Now().Unix())
	regPayload := map[string]string{
		"nom":      "Agent E2E",
		"email":    email,
		"password": "securepassword",
		"commune":  "Anfa",
	}
	regBody, _ := json.Marshal(regPayload)
	regResp, err := http.Post(fmt.Sprintf("%s/auth/register", baseURL), "application/json", bytes.NewReader(regBody))
	check(err)
	if regResp.StatusCode != http.StatusCreated && regResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(regResp.Body)
		log.Printf("Register failed: %s - %s", regResp.Status, string(body))
	} else {
		log.Println("   -> Registered successfully.")
	}
	regResp.Body.Close()

	// Login
	loginPayload, _ := json.Marshal(map[string]string{"email": email, "password": "securepassword"})
	loginResp, err := http.Post(fmt.Sprintf("%s/auth/login", baseURL), "application/json", bytes.NewReader(loginPayload))
	check(err)
	defer loginResp.Body.Close()

	if loginResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(loginResp.Body)
		log.Fatalf("Login failed: %s - %s", loginResp.Status, string(body))
	}

	var loginData map[string]string
	json.NewDecoder(loginResp.Body).Decode(&loginData)
	token := loginData["token"]
	log.Printf("   -> Authenticated! Token: %s...", token[:10])

	// Helper to make authenticated requests
	authRequest := func(method, url string, body io.Reader) *http.Response {
		req, _ := http.NewRequest(method, url, body)
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := http.DefaultClient.Do(req)
		check(err)
		return resp
	}

	// 2. Get Presigned URLs and upload the before/after photos
	log.Println("2. Requesting Presigned URL for photos...")
	photoURLs := map[string]string{}
	for _, fileName := range []string{"avant_demolition.jpg", "apres_demolition.jpg"} {
		resp := authRequest("GET", fmt.Sprintf("%s/actions/upload-url?file_name=%s", baseURL, fileName), nil)
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			log.Fatalf("Failed to get upload URL: %s - %s", resp.Status, string(body))
		}
		var uploadInfo map[string]string
		json.NewDecoder(resp.Body).Decode(&uploadInfo)
		resp.Body.Close()

		req, err := http.NewRequest(http.MethodPut, uploadInfo["upload_url"], bytes.NewReader([]byte("dummy image for E2E testing")))
		check(err)
		req.Header.Set("Content-Type", "image/jpeg")
		uploadResp, err := http.DefaultClient.Do(req)
		check(err)
		if uploadResp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(uploadResp.Body)
			uploadResp.Body.Close()
			log.Fatalf("Failed to upload to MinIO: %s - %s", uploadResp.Status, string(body))
		}
		uploadResp.Body.Close()
		photoURLs[fileName] = fileName
	}
	log.Println("   -> Photos uploaded!")

	// 3. Create Action (le PV brouillon est généré en même temps)
	log.Println("3. Creating DEMOLITION Action...")
	actionPayload := map[string]interface{}{
		"type":         "DEMOLITION",
		"commune":      "Anfa",
		"observations": "E2E Test : construction non réglementaire constatée sur parcelle.",
		"date":         time.Now().Format(time.RFC3339),
		"photos": []map[string]string{
			{"url": photoURLs["avant_demolition.jpg"], "slot": "BEFORE"},
			{"url": photoURLs["apres_demolition.jpg"], "slot": "AFTER"},
		},
	}

	jsonBody, _ := json.Marshal(actionPayload)
	actionResp := authRequest("POST", fmt.Sprintf("%s/actions", baseURL), bytes.NewReader(jsonBody))
	defer actionResp.Body.Close()

	if actionResp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(actionResp.Body)
		log.Fatalf("Failed to create action: %s - %s", actionResp.Status, string(body))
	}

	var createResp struct {
		Action map[string]interface{} `json:"action"`
		PVID   string                 `json:"pv_id"`
	}
	json.NewDecoder(actionResp.Body).Decode(&createResp)
	actionID := createResp.Action["id"].(string)
	pvID := createResp.PVID
	log.Printf("   -> Action created! ID: %s | PV brouillon: %s", actionID, pvID)

	// 4. Complete the PV (décisions) then validate it
	log.Println("4. Completing and validating PV...")
	patchPayload, _ := json.Marshal(map[string]string{
		"decisions": "Démolition exécutée conformément à l'arrêté du gouverneur.",
	})
	patchResp := authRequest("PATCH", fmt.Sprintf("%s/pvs/%s", baseURL, pvID), bytes.NewReader(patchPayload))
	if patchResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(patchResp.Body)
		patchResp.Body.Close()
		log.Fatalf("Failed to update PV: %s - %s", patchResp.Status, string(body))
	}
	patchResp.Body.Close()

	validateResp := authRequest("POST", fmt.Sprintf("%s/pvs/%s/valider", baseURL, pvID), nil)
	defer validateResp.Body.Close()
	if validateResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(validateResp.Body)
		log.Fatalf("Failed to validate PV: %s - %s", validateResp.Status, string(body))
	}
	log.Println("   -> PV validated!")

	// 5. Download the printable document
	log.Println("5. Downloading PV document...")
	docResp := authRequest("GET", fmt.Sprintf("%s/pvs/%s/document", baseURL, pvID), nil)
	defer docResp.Body.Close()
	if docResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(docResp.Body)
		log.Fatalf("Failed to download document: %s - %s", docResp.Status, string(body))
	}
	doc, _ := io.ReadAll(docResp.Body)
	log.Printf("   -> Document received (%d bytes)", len(doc))

	// 6. Verify Action is TERMINEE in the list
	log.Println("6. Verifying Action status in List...")
	listResp := authRequest("GET", fmt.Sprintf("%s/actions", baseURL), nil)
	defer listResp.Body.Close()

	var actions []map[string]interface{}
	json.NewDecoder(listResp.Body).Decode(&actions)

	found := false
	for _, a := range actions {
		if a["id"] == actionID {
			found = a["statut"] == "TERMINEE"
			log.Printf("   -> Found action: %s | Statut: %s | PV: %s", a["type"], a["statut"], a["pv_id"])
			break
		}
	}

	if found {
		log.Println("SUCCESS: E2E Integration Test Passed!")
	} else {
		log.Fatalf("FAILURE: Action %s not found or not TERMINEE.", actionID)
	}
}
