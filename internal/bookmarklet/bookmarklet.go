// Package bookmarklet renders the browser script that pushes the credential
// open in the current tab to the local relay.
package bookmarklet

import (
	"strings"
	"text/template"

	"github.com/ytget/credential-mapper/internal/relay"
)

// Messages shown by the script in the browser.
const (
	SentMessage   = "Sent!"
	FailedMessage = "Failed to contact mapping server. Is it running?"
)

// The script body is kept on several lines here and joined into a single
// line on render; bookmarks cannot hold newlines.
var scriptLines = []string{
	`javascript:(()=>{`,
	`function g(sel){return document.querySelector(sel);}`,
	`function getId(){let m=window.location.pathname.match(/credentials\/([a-zA-Z0-9_-]+)/);return m?m[1]:null;}`,
	`function getName(){let n=g('[data-test-id="credential-name"]')||g('input[name="name"]')||g('input[placeholder="Name"]');return n?(n.value||n.textContent||'').trim():'';}`,
	`let id=getId(),name=getName();`,
	`if(!id)id=prompt('Credential ID?');`,
	`if(!name)name=prompt('Credential Name?');`,
	`if(!id||!name)return;`,
	`fetch('{{.URL}}',{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify({id,name}),mode:'cors'})`,
	`.then(()=>alert('{{.Sent}}'))`,
	`.catch(()=>alert('{{.Failed}}'));`,
	`})();`,
}

var scriptTemplate = template.Must(template.New("bookmarklet").Parse(strings.Join(scriptLines, "")))

type scriptData struct {
	URL    string
	Sent   string
	Failed string
}

// Script returns the javascript: URL that posts {id, name} to the relay on port.
func Script(port int) string {
	var b strings.Builder
	data := scriptData{
		URL:    relay.LocalURL(port),
		Sent:   SentMessage,
		Failed: FailedMessage,
	}
	// Execute only fails on writer errors, which strings.Builder never returns
	_ = scriptTemplate.Execute(&b, data)
	return b.String()
}

// Default returns the script for the relay's fixed port.
func Default() string {
	return Script(relay.DefaultPort)
}
