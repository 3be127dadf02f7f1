package ledger

import (
	"bytes"
	"encoding/json"
	"net/url"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/ringmask/ringmask/internal/utils"
	"github.com/ringmask/ringmask/pkg/version"
)

// Remote wraps another Ledger and mirrors every Register/Unregister to an
// HTTP endpoint, so a backend can aggregate which guidance users have
// seen. Reads never leave the local ledger; mirroring is fire-and-forget
// and inherits the package's best-effort write contract.
type Remote struct {
	local   Ledger
	baseURL string
	client  *retryablehttp.Client
}

// NewRemote builds a mirroring ledger. baseURL receives POSTs on register
// and DELETEs on unregister.
func NewRemote(local Ledger, baseURL string) *Remote {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	return &Remote{local: local, baseURL: baseURL, client: client}
}

func (r *Remote) IsNew(key Key) bool { return r.local.IsNew(key) }

func (r *Remote) IsNewRelativeTo(key Key, v version.Version) bool {
	return r.local.IsNewRelativeTo(key, v)
}

func (r *Remote) Register(key Key, v version.Version) {
	r.local.Register(key, v)
	go r.post(key, v)
}

func (r *Remote) Unregister(key Key) {
	r.local.Unregister(key)
	go r.delete(key)
}

type remotePayload struct {
	Scope   string `json:"scope"`
	Version string `json:"version"`
}

func (r *Remote) post(key Key, v version.Version) {
	body, err := json.Marshal(remotePayload{Scope: key.String(), Version: v.Full()})
	if err != nil {
		return
	}
	resp, err := r.client.Post(r.baseURL, "application/json", bytes.NewReader(body))
	if err != nil {
		utils.Log.Debugf("ledger: mirror register %s: %v", key, err)
		return
	}
	resp.Body.Close()
}

func (r *Remote) delete(key Key) {
	u := r.baseURL + "?scope=" + url.QueryEscape(key.String())
	req, err := retryablehttp.NewRequest("DELETE", u, nil)
	if err != nil {
		return
	}
	resp, err := r.client.Do(req)
	if err != nil {
		utils.Log.Debugf("ledger: mirror unregister %s: %v", key, err)
		return
	}
	resp.Body.Close()
}
