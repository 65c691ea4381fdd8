// @title           StudyPadi Ingestion API
// @version         1.0
// @description     Uploads study documents, turns them into sections, quizzes and flashcards, and answers questions about them.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis
//docker run -p 6379:6379 -d redis

//run postgres
//docker run -p 5432:5432 -e POSTGRES_PASSWORD=studypadi -d postgres:16

//docker run
//docker run -p 6333:6333 -p 6334:6334 -v vectorDBData:/qddrant/storage qdrant/qdrant

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
