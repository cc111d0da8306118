package dialog

// User-facing texts, kept in the bot's original voice.
const (
	msgUnauthorized = "Loco no estás habilitado para cargar partidas, decile al admin que se ponga las pilas y pasale tu ID:"

	msgHelp = `Bienvenido al registro de Catan de la Xente. Comandos habilitados:
/new - Cargar resultados de una partida
/player - Cargar un nuevo jugador a la lista
/cancel - Cancelar una carga en curso
/help - Mostrar comandos habilitados`

	msgAskNewPlayers = "Agrega jugadores que no están en listado. Si es más de uno separalos con comas."
	msgPlayersAdded  = "Se han agregado los siguientes jugadores: %s"
	msgPlayersError  = "Hubo un error al cargar los jugadores nuevos. Por favor, intenta nuevamente."

	msgRosterFailure  = "No pudimos cargar los jugadores, una lástima. Proba de nuevo más tarde."
	msgSessionActive  = "Ya hay una carga en curso. Cancelala con /cancel antes de empezar otra."
	msgAskCount       = "¿Cuántos jugadores participaron hoy?"
	msgInvalidCount   = "Número inválido. Por favor, intenta de nuevo."
	msgSelectPlayers  = "Marca los %d que participaron:"
	msgSelectionDone  = "Joya. Ahora vamos a cargar los puntos."
	msgAskScore       = "Puntaje hecho por %s:"
	msgInvalidScore   = "Por favor, ingresa un puntaje válido (0-10)."
	msgAskWinnerColor = "¿Cuál fue el color ganador?"
	msgAskLocation    = "¿En qué sede se jugó?"
	msgSuccess        = "¡Éxito rotundo, todo cargado pibe!"
	msgSaveError      = "Hubo un error al guardar los resultados. Por favor, intenta nuevamente."

	msgCancelled       = "Perfecto, cancelamos todo maestro. Puedes volver a empezar con el comando /new"
	msgNothingToCancel = "No hay una carga en curso para este chat."
)
