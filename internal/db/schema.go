package db

// SchemaSQL contains the database schema initialization SQL.
// The review embedding index dimension must match the configured embedder
// (all-minilm:l6-v2 produces 384-dim vectors).
const SchemaSQL = `
    -- ==========================================================================
    -- RESTAURANT TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS restaurant SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS restaurant_name ON restaurant TYPE string;
    DEFINE FIELD IF NOT EXISTS average_price ON restaurant TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS total_rating ON restaurant TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS restaurant_location ON restaurant TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS neighbourhood ON restaurant TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS hours_of_operation ON restaurant TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS cuisine ON restaurant TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS tags ON restaurant TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS overall_rating ON restaurant TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS food_rating ON restaurant TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS service_rating ON restaurant TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS ambience_rating ON restaurant TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS five_stars ON restaurant TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS four_stars ON restaurant TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS three_stars ON restaurant TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS two_stars ON restaurant TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS one_stars ON restaurant TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS total_review_counts ON restaurant TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS created_at ON restaurant TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS is_active ON restaurant TYPE bool DEFAULT true;

    DEFINE INDEX IF NOT EXISTS restaurant_name_unique ON restaurant FIELDS restaurant_name UNIQUE;
    DEFINE INDEX IF NOT EXISTS restaurant_neighbourhood ON restaurant FIELDS neighbourhood;

    -- ==========================================================================
    -- USER TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS user SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS email ON user TYPE string;
    DEFINE FIELD IF NOT EXISTS phone_number ON user TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS name ON user TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS password ON user TYPE string;
    DEFINE FIELD IF NOT EXISTS is_verified ON user TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS is_deleted ON user TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS is_active ON user TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS is_admin ON user TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS tier ON user TYPE string DEFAULT 'FREE';
    DEFINE FIELD IF NOT EXISTS restaurant_id ON user TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created_at ON user TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON user TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS user_email_unique ON user FIELDS email UNIQUE;
    DEFINE INDEX IF NOT EXISTS user_phone_unique ON user FIELDS phone_number UNIQUE;

    -- ==========================================================================
    -- REVIEW TABLE (embedded passage corpus for retrieval)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS review SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS text ON review TYPE string;
    DEFINE FIELD IF NOT EXISTS restaurant_name ON review TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS source ON review TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS embedding ON review TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS created_at ON review TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS review_restaurant ON review FIELDS restaurant_name;
    DEFINE INDEX IF NOT EXISTS review_embedding ON review FIELDS embedding HNSW DIMENSION 384 DIST COSINE TYPE F32;
`
