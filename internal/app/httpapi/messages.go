package httpapi

// messages holds the response texts of one entity kind.
type messages struct {
	created       string
	createInvalid string
	createFailed  string
	updated       string
	updateFailed  string
	deleted       string
	deleteFailed  string
	notFound      string
	referenced    string
	empty         string
	listFailed    string
	showFailed    string

	// Whether the entity is echoed under "dados" after a write.
	echoCreate bool
	echoUpdate bool
}

var customerMessages = messages{
	created:       "Cliente cadastrado com sucesso.",
	createInvalid: "Erro ao cadastrar cliente.",
	createFailed:  "Erro ao cadastrar cliente.",
	updated:       "Cliente atualizado com sucesso.",
	updateFailed:  "Erro ao atualizar cliente.",
	deleted:       "Cliente deletado com sucesso.",
	deleteFailed:  "Erro ao deletar cliente.",
	notFound:      "Cliente não encontrado.",
	referenced:    "Cliente possui pedidos vinculados.",
	empty:         "Não há clientes cadastrados.",
	listFailed:    "Erro ao listar clientes.",
	showFailed:    "Erro ao buscar cliente.",
}

var productMessages = messages{
	created:       "Produto criado com sucesso.",
	createInvalid: "Erro ao criar produto.",
	createFailed:  "Erro ao criar produto.",
	updated:       "Produto atualizado com sucesso.",
	updateFailed:  "Erro ao atualizar produto.",
	deleted:       "Produto deletado com sucesso.",
	deleteFailed:  "Erro ao deletar produto.",
	notFound:      "Produto não encontrado.",
	referenced:    "Produto possui pedidos vinculados.",
	empty:         "Não há produtos cadastrados.",
	listFailed:    "Erro ao listar produtos.",
	showFailed:    "Erro ao buscar produto.",
	echoCreate:    true,
}

var orderMessages = messages{
	created:       "Pedido efetuado com sucesso.",
	createInvalid: "Erro ao cadastrar pedido.",
	createFailed:  "Erro ao criar pedido.",
	updated:       "Pedido atualizado com sucesso.",
	updateFailed:  "Erro ao atualizar pedido.",
	deleted:       "Pedido deletado com sucesso.",
	deleteFailed:  "Erro ao deletar pedido.",
	notFound:      "Pedido não encontrado.",
	referenced:    "Pedido possui registros vinculados.",
	empty:         "Não há pedidos cadastrados.",
	listFailed:    "Erro ao listar pedidos.",
	showFailed:    "Erro ao buscar pedido.",
	echoCreate:    true,
	echoUpdate:    true,
}

// notFoundMessages is keyed by the resource detail of a not found error, so an
// order pointing at a missing customer answers with the customer message.
var notFoundMessages = map[string]string{
	"customer": customerMessages.notFound,
	"product":  productMessages.notFound,
	"order":    orderMessages.notFound,
	"user":     "Usuário não encontrado.",
}

const (
	msgInvalidBody     = "Corpo da requisição inválido."
	msgUserCreated     = "Usuário cadastrado com sucesso."
	msgUserInvalid     = "Erro ao cadastrar usuário."
	msgLoginInvalid    = "Erro ao efetuar login."
	msgBadCredentials  = "Credenciais inválidas."
	msgUnauthorized    = "Token de acesso inválido."
	msgUnexpectedError = "Erro interno do servidor."
)
