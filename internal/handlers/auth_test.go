package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/otaviopl/infra-agricultura-app/internal/security"
)

// fakeUserTable is an in-memory users table keyed by username.
type fakeUserTable struct {
	items map[string]map[string]types.AttributeValue
}

func newFakeUserTable() *fakeUserTable {
	return &fakeUserTable{items: map[string]map[string]types.AttributeValue{}}
}

func usernameOf(key map[string]types.AttributeValue) string {
	if v, ok := key["username"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *fakeUserTable) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	item, ok := f.items[usernameOf(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeUserTable) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.items[usernameOf(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeUserTable) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	u := usernameOf(params.Key)
	if _, ok := f.items[u]; !ok {
		f.items[u] = map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: u},
		}
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func postJSON(body string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{Body: body}
	req.RequestContext.HTTP.Method = "POST"
	return req
}

func registerUser(t *testing.T, tbl *fakeUserTable, username, email, password string) {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	tbl.items[username] = map[string]types.AttributeValue{
		"username": &types.AttributeValueMemberS{Value: username},
		"email":    &types.AttributeValueMemberS{Value: email},
		"password": &types.AttributeValueMemberS{Value: hash},
	}
}

func TestRegister(t *testing.T) {
	t.Setenv("USERS_TABLE", "users-test")
	tbl := newFakeUserTable()
	h := NewRegisterHandler(tbl, nil)

	resp, err := h.Handle(context.Background(), postJSON(`{"username":"ana","email":"ana@example.com","password":"s3cret"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	item, ok := tbl.items["ana"]
	if !ok {
		t.Fatal("user item not written")
	}
	stored := item["password"].(*types.AttributeValueMemberS).Value
	if stored == "s3cret" {
		t.Error("password must be stored hashed")
	}
	if !security.CheckPassword(stored, "s3cret") {
		t.Error("stored hash does not verify")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	t.Setenv("USERS_TABLE", "users-test")
	h := NewRegisterHandler(newFakeUserTable(), nil)

	for _, body := range []string{
		`{"email":"a@b.com","password":"x"}`,
		`{"username":"ana","password":"x"}`,
		`{"username":"ana","email":"a@b.com"}`,
		`not json`,
	} {
		resp, err := h.Handle(context.Background(), postJSON(body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != 400 {
			t.Errorf("body %s: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("USERS_TABLE", "users-test")
	tbl := newFakeUserTable()
	registerUser(t, tbl, "ana", "ana@example.com", "s3cret")

	h := &LoginHandler{DDB: tbl, JWTSecret: "jwt-test-secret"}

	resp, err := h.Handle(context.Background(), postJSON(`{"username":"ana","password":"s3cret"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var out map[string]string
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}

	claims, err := security.VerifySessionToken("jwt-test-secret", out["token"])
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Username != "ana" || claims.Email != "ana@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	t.Setenv("USERS_TABLE", "users-test")
	tbl := newFakeUserTable()
	registerUser(t, tbl, "ana", "ana@example.com", "s3cret")

	h := &LoginHandler{DDB: tbl, JWTSecret: "jwt-test-secret"}

	wrongPassword, err := h.Handle(context.Background(), postJSON(`{"username":"ana","password":"nope"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unknownUser, err := h.Handle(context.Background(), postJSON(`{"username":"ghost","password":"nope"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wrongPassword.StatusCode != 401 || unknownUser.StatusCode != 401 {
		t.Fatalf("statuses = %d/%d, want 401/401", wrongPassword.StatusCode, unknownUser.StatusCode)
	}
	if wrongPassword.Body != unknownUser.Body {
		t.Errorf("bodies differ: %q vs %q, user enumeration leak", wrongPassword.Body, unknownUser.Body)
	}
}
