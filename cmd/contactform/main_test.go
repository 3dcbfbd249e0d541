package main

import (
	"bytes"
	"testing"

	"github.com/moura-ar/portfolio/internal/formclient"
	"github.com/moura-ar/portfolio/internal/logging"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFormFlags_UnknownProjectTypes(t *testing.T) {
	f := formFlags{projectTypes: []string{"website", "blockchain, ai", " "}}
	assert.Equal(t, []string{"blockchain"}, f.unknownProjectTypes())

	form := f.submissionForm()
	assert.Equal(t, f.projectTypes, form.ProjectTypes)
}

func TestTerminalView(t *testing.T) {
	color.NoColor = true
	logger = logging.NewNop()

	var out bytes.Buffer
	v := newTerminalView(&out)

	v.SetFieldError(formclient.FieldEmail, "Ingresá una dirección de email válida")
	v.SetFieldError(formclient.FieldName, "")
	v.SetFieldValid(formclient.FieldName, true)
	v.SetCounter(formclient.CharacterCounter(451))
	v.SetHiddenValue("utm_source", "newsletter")
	v.ShowBanner(formclient.MsgSubmitTimeout)
	v.LockForm()

	assert.Equal(t,
		"✗ email: Ingresá una dirección de email válida\n"+
			"✓ name\n"+
			"  451 / 500\n"+
			"! "+formclient.MsgSubmitTimeout+"\n"+
			"✓ Enviado correctamente\n",
		out.String())
}
